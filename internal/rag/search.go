package rag

import (
	"sort"
	"strings"

	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/types"
)

const maxResults = 5

// Searcher is the lexical relevance ranker behind the chat assistant's
// retrieval step. It is deliberately not a vector search: the scoring
// weights are part of the product behavior and are pinned by tests.
type Searcher struct {
	log *logger.Logger
}

func NewSearcher(baseLog *logger.Logger) *Searcher {
	var log *logger.Logger
	if baseLog != nil {
		log = baseLog.With("service", "RAGSearcher")
	}
	return &Searcher{log: log}
}

// Search scores every note in the corpus against the query and returns
// at most 5 results ordered by descending score. Ties keep corpus order.
//
// Per surviving query token (length > 2): +2 for a content hit, +3 for a
// people hit, +2 topics, +1 actions, all case-insensitive substring
// containment. On top of that, every note-text word longer than 4 chars
// that also appears in the query counts +1 per occurrence.
func (s *Searcher) Search(query string, corpus []*types.Note) []types.RelevanceResult {
	results := []types.RelevanceResult{}
	if len(corpus) == 0 {
		return results
	}

	queryLower := strings.ToLower(query)
	queryWords := strings.Fields(queryLower)

	keywords := make([]string, 0, len(queryWords))
	for _, w := range queryWords {
		if len(w) > 2 {
			keywords = append(keywords, w)
		}
	}

	querySet := make(map[string]bool, len(queryWords))
	for _, w := range queryWords {
		querySet[w] = true
	}

	for _, note := range corpus {
		content := strings.ToLower(note.Content)
		info := note.Info()

		score := 0
		matched := []string{}
		for _, kw := range keywords {
			if strings.Contains(content, kw) {
				score += 2
				matched = append(matched, kw)
			}
			if anyContains(info.People, kw) {
				score += 3
			}
			if anyContains(info.Topics, kw) {
				score += 2
			}
			if anyContains(info.Actions, kw) {
				score += 1
			}
		}

		// Generic word overlap, counted once per occurrence.
		for _, w := range strings.Fields(content) {
			if len(w) > 4 && querySet[w] {
				score++
			}
		}

		if score > 0 {
			results = append(results, types.RelevanceResult{
				Note:            note,
				RelevanceScore:  score,
				MatchedKeywords: matched,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	if s.log != nil {
		s.log.Debug("RAG search complete", "query", query, "corpus", len(corpus), "hits", len(results))
	}
	return results
}

func anyContains(entries []string, keyword string) bool {
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e), keyword) {
			return true
		}
	}
	return false
}

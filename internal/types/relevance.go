package types

// RelevanceResult augments a note with its lexical relevance score for a
// single query. Transient: computed per query, never persisted.
type RelevanceResult struct {
	Note            *Note    `json:"note"`
	RelevanceScore  int      `json:"relevanceScore"`
	MatchedKeywords []string `json:"matchedKeywords"`
}

package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/noteable-backend/internal/clients/openai"
	"github.com/yungbote/noteable-backend/internal/httpx"
	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/types"
)

const (
	// Retry ceiling and backoff step for server-class completion errors.
	linkMaxRetries  = 3
	linkBackoffStep = 2 * time.Second

	// Pacing delay between successive calls in the batch driver. The
	// serialization is rate-limit avoidance, not a performance choice.
	linkPacingDelay = 2 * time.Second
)

// EntityLinkService enriches notes with categorized link suggestions via
// the completion service. It degrades, never fails: every path out of
// GenerateForNote returns a bundle with all nine categories present.
type EntityLinkService interface {
	GetForNote(ctx context.Context, note *types.Note) types.EntityLinkBundle
	GenerateForNote(ctx context.Context, note *types.Note) types.EntityLinkBundle
	GenerateForAll(ctx context.Context, notes []*types.Note, force bool)
}

type entityLinkService struct {
	log   *logger.Logger
	ai    openai.Client
	cache LinkCache

	// group collapses concurrent enrichment requests for the same note;
	// at most one completion call is in flight per note identifier.
	group singleflight.Group

	// sleep is swapped out by tests to observe backoff and pacing.
	sleep func(time.Duration)
}

func NewEntityLinkService(baseLog *logger.Logger, ai openai.Client, cache LinkCache) EntityLinkService {
	return &entityLinkService{
		log:   baseLog.With("service", "EntityLinkService"),
		ai:    ai,
		cache: cache,
		sleep: time.Sleep,
	}
}

// GetForNote returns the cached bundle when present, otherwise generates
// and caches one.
func (s *entityLinkService) GetForNote(ctx context.Context, note *types.Note) types.EntityLinkBundle {
	noteID := note.ID.String()
	if bundle, ok := s.cache.Get(ctx, noteID); ok {
		return bundle
	}
	bundle := s.GenerateForNote(ctx, note)
	s.cache.Put(ctx, noteID, bundle)
	return bundle
}

func (s *entityLinkService) GenerateForNote(ctx context.Context, note *types.Note) types.EntityLinkBundle {
	noteID := note.ID.String()
	v, _, _ := s.group.Do(noteID, func() (interface{}, error) {
		return s.generate(ctx, note), nil
	})
	return v.(types.EntityLinkBundle)
}

// generate drives the completion call with the bounded retry loop. Server
// errors (>=500) are retried up to 3 times with linear 2s backoff, then
// degraded to the deterministic keyword fallback. Any other error, and
// any unparseable response, degrades to the empty bundle.
func (s *entityLinkService) generate(ctx context.Context, note *types.Note) types.EntityLinkBundle {
	prompt := buildEntityLinkPrompt(note.Content)

	for retry := 0; ; retry++ {
		text, err := s.ai.Complete(ctx, openai.CompletionRequest{
			System:      prompt,
			MaxTokens:   2000,
			Temperature: 0.3,
		})
		if err != nil {
			if httpx.IsServerError(err) {
				if retry < linkMaxRetries {
					wait := linkBackoffStep * time.Duration(retry+1)
					s.log.Warn("Completion server error, retrying",
						"note_id", note.ID, "attempt", retry+1, "max", linkMaxRetries, "wait", wait.String())
					s.sleep(wait)
					continue
				}
				s.log.Warn("Completion retries exhausted, using fallback links", "note_id", note.ID)
				return fallbackLinks(note)
			}
			s.log.Warn("Completion failed, returning empty links", "note_id", note.ID, "error", err)
			return types.EmptyEntityLinkBundle()
		}

		var bundle types.EntityLinkBundle
		if err := json.Unmarshal([]byte(repairJSON(text)), &bundle); err != nil {
			s.log.Warn("Completion returned unparseable JSON, returning empty links",
				"note_id", note.ID, "error", err)
			return types.EmptyEntityLinkBundle()
		}
		bundle.Normalize()
		return bundle
	}
}

// GenerateForAll enriches the corpus strictly sequentially with a fixed
// pacing delay between successive completion calls. Notes with a cached
// bundle are skipped unless force is set.
func (s *entityLinkService) GenerateForAll(ctx context.Context, notes []*types.Note, force bool) {
	s.log.Info("Generating links for notes", "count", len(notes), "force", force)
	for i, note := range notes {
		if ctx.Err() != nil {
			s.log.Warn("Batch enrichment cancelled", "processed", i)
			return
		}
		noteID := note.ID.String()
		if _, ok := s.cache.Get(ctx, noteID); ok && !force {
			continue
		}
		bundle := s.GenerateForNote(ctx, note)
		s.cache.Put(ctx, noteID, bundle)
		if i < len(notes)-1 {
			s.sleep(linkPacingDelay)
		}
	}
	s.log.Info("Finished generating links for notes", "count", len(notes))
}

// repairJSON strips markdown fences and surrounding prose so a mostly-JSON
// completion still parses.
func repairJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// fallbackLinks is the deterministic keyword-triggered bundle used when
// the completion service stays down through every retry.
func fallbackLinks(note *types.Note) types.EntityLinkBundle {
	content := note.Content
	lower := strings.ToLower(content)
	excerpt := content
	if len(excerpt) > 100 {
		excerpt = excerpt[:100]
	}

	bundle := types.EmptyEntityLinkBundle()
	if strings.Contains(lower, "tokyo") {
		bundle.Places = append(bundle.Places, types.EntityLink{
			Name:           "Tokyo",
			Type:           "city",
			SearchTerms:    []string{"Tokyo travel guide", "Tokyo attractions", "Tokyo hotels"},
			SuggestedSites: []string{"Japan Guide", "TripAdvisor", "Booking.com"},
			Context:        "Mentioned in note",
			SourceNote:     excerpt,
		})
	}
	if strings.Contains(lower, "iphone") {
		bundle.Products = append(bundle.Products, types.EntityLink{
			Name:           "iPhone",
			Type:           "smartphone",
			SearchTerms:    []string{"iPhone price", "iPhone comparison", "iPhone reviews"},
			SuggestedSites: []string{"Apple Store", "Elgiganten", "MediaMarkt"},
			Context:        "Mentioned in note",
			SourceNote:     excerpt,
		})
	}
	if strings.Contains(lower, "react") {
		bundle.TechStack = append(bundle.TechStack, types.EntityLink{
			Name:           "React",
			Type:           "framework",
			SearchTerms:    []string{"React documentation", "React tutorials", "React examples"},
			SuggestedSites: []string{"reactjs.org", "GitHub", "Stack Overflow"},
			Context:        "Mentioned in note",
			SourceNote:     excerpt,
		})
	}
	return bundle
}

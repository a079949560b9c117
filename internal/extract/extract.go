package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/types"
)

// Extractor is the pluggable extraction strategy. The shipped
// implementation is regex/keyword based; an embedding-backed one could be
// swapped in without touching the Note data model.
type Extractor interface {
	ExtractInfo(text string) types.ExtractedInfo
	ExtractReminders(text string) []types.Reminder
}

type RuleExtractor struct {
	log            *logger.Logger
	peoplePattern  *regexp.Regexp
	topicKeywords  []string
	actionKeywords []string
	temporalRules  []temporalRule

	// now is swapped out by tests; extraction resolves reminders relative
	// to the wall clock at the moment of the call.
	now func() time.Time
}

func NewRuleExtractor(baseLog *logger.Logger, cfg Config) (*RuleExtractor, error) {
	people, err := regexp.Compile(cfg.PeoplePattern)
	if err != nil {
		return nil, err
	}
	var log *logger.Logger
	if baseLog != nil {
		log = baseLog.With("service", "RuleExtractor")
	}
	return &RuleExtractor{
		log:            log,
		peoplePattern:  people,
		topicKeywords:  lowered(cfg.TopicKeywords),
		actionKeywords: lowered(cfg.ActionKeywords),
		temporalRules:  compileTemporalRules(),
		now:            time.Now,
	}, nil
}

// ExtractInfo pulls people, topics and actions out of free text. Pure and
// deterministic: same text in, same info out.
func (e *RuleExtractor) ExtractInfo(text string) types.ExtractedInfo {
	info := types.ExtractedInfo{
		People:  []string{},
		Topics:  []string{},
		Actions: []string{},
	}

	for _, m := range e.peoplePattern.FindAllStringSubmatch(text, -1) {
		info.People = append(info.People, m[1])
	}

	lower := strings.ToLower(text)
	for _, kw := range e.topicKeywords {
		// Substring containment, not word-boundary aware: "reporting"
		// contains "report".
		if strings.Contains(lower, kw) {
			info.Topics = append(info.Topics, kw)
		}
	}
	for _, kw := range e.actionKeywords {
		if strings.Contains(lower, kw) {
			info.Actions = append(info.Actions, kw)
		}
	}
	return info
}

func lowered(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}

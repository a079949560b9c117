package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/noteable-backend/internal/types"
)

// temporalRule pairs a date/time phrase pattern with the day offset it
// implies and whether the matched substring also carries a clock time.
type temporalRule struct {
	pattern    *regexp.Regexp
	offsetDays int
	hasTime    bool
}

// timePattern re-extracts hour/minute/meridiem from a rule match.
var timePattern = regexp.MustCompile(`(?i)(\d{1,2}):?(\d{2})?\s*(AM|PM)?`)

func compileTemporalRules() []temporalRule {
	return []temporalRule{
		// Tomorrow
		{regexp.MustCompile(`(?i)tomorrow at (\d{1,2}):?(\d{2})?\s*(AM|PM)?`), 1, true},
		{regexp.MustCompile(`(?i)tomorrow`), 1, false},

		// Next week
		{regexp.MustCompile(`(?i)next (\w+) at (\d{1,2}):?(\d{2})?\s*(AM|PM)?`), 7, true},
		{regexp.MustCompile(`(?i)next (\w+)`), 7, false},

		// Clock times today
		{regexp.MustCompile(`(?i)at (\d{1,2}):(\d{2})\s*(AM|PM)`), 0, true},
		{regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(AM|PM)`), 0, true},

		// Numeric dates. The captured components are not folded back into
		// the offset; the resolved day stays "today". Matches the shipped
		// mobile app and is pinned by tests.
		{regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`), 0, false},
		{regexp.MustCompile(`(\d{1,2})/(\d{1,2})`), 0, false},

		// Weekday names
		{regexp.MustCompile(`(?i)(monday|tuesday|wednesday|thursday|friday|saturday|sunday) at (\d{1,2}):?(\d{2})?\s*(AM|PM)?`), 0, true},
		{regexp.MustCompile(`(?i)(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`), 0, false},
	}
}

// ExtractReminders scans text for date/time phrases and resolves each
// match against the current wall clock. Every rule is applied; a phrase
// that satisfies several rules yields several reminders, and no
// de-duplication happens here.
func (e *RuleExtractor) ExtractReminders(text string) []types.Reminder {
	reminders := []types.Reminder{}

	for _, rule := range e.temporalRules {
		for _, match := range rule.pattern.FindAllString(text, -1) {
			at := e.now()
			if rule.offsetDays > 0 {
				at = at.AddDate(0, 0, rule.offsetDays)
			}
			if rule.hasTime {
				if tm := timePattern.FindStringSubmatch(match); tm != nil {
					hours := atoiOrZero(tm[1])
					minutes := atoiOrZero(tm[2])
					switch strings.ToUpper(tm[3]) {
					case "PM":
						if hours != 12 {
							hours += 12
						}
					case "AM":
						if hours == 12 {
							hours = 0
						}
					}
					at = time.Date(at.Year(), at.Month(), at.Day(), hours, minutes, 0, 0, at.Location())
				}
			}
			reminders = append(reminders, types.Reminder{
				Text:         match,
				Date:         at,
				OriginalText: text,
			})
		}
	}

	return reminders
}

// atoiOrZero tolerates empty/malformed optional captures.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

package rag

import (
	"fmt"
	"strings"

	"github.com/yungbote/noteable-backend/internal/types"
)

// BuildContext renders ranked results into the grounding block appended
// to the chat prompt. Empty results yield an empty string so the chat
// falls back to general knowledge.
func BuildContext(results []types.RelevanceResult) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nRelevant context from the user's notes:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Note.Content)
		info := r.Note.Info()
		if len(info.People) > 0 {
			fmt.Fprintf(&b, "   People: %s\n", strings.Join(info.People, ", "))
		}
		if len(info.Topics) > 0 {
			fmt.Fprintf(&b, "   Topics: %s\n", strings.Join(info.Topics, ", "))
		}
		if len(info.Actions) > 0 {
			fmt.Fprintf(&b, "   Actions: %s\n", strings.Join(info.Actions, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

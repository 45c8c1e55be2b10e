package feedback

import (
	"fmt"
	"strings"
	"time"

	"brandstudio/internal/models"
	"brandstudio/internal/prompt"
)

// NoApprovedContent is rendered when a brand has nothing approved yet.
const NoApprovedContent = "No approved content yet for this brand."

// FormatApprovedContentAsInspiration renders approvals as numbered few-shot
// examples, in the order given.
func FormatApprovedContentAsInspiration(items []models.ApprovedContent) string {
	if len(items) == 0 {
		return NoApprovedContent
	}

	blocks := make([]string, 0, len(items))
	for i, item := range items {
		var sb strings.Builder
		fmt.Fprintf(&sb, "EXAMPLE %d — approved on %s\n", i+1, item.ApprovedAt.Format(time.DateOnly))
		prompt.Field(&sb, "Type", item.ContentType.Label())
		prompt.Field(&sb, "Original request", item.UserPrompt)
		if item.Variation != nil {
			prompt.Field(&sb, "Persona", item.Variation.Persona)
			prompt.Field(&sb, "Angle", item.Variation.Angle)
		}
		prompt.Field(&sb, "Headline", item.Headline())
		prompt.Field(&sb, "Body", item.Body())
		prompt.Field(&sb, "CTA", item.CTA())
		if item.Variation != nil && len(item.Variation.Keywords) > 0 {
			prompt.Field(&sb, "Keywords", strings.Join(item.Variation.Keywords, ", "))
		}
		blocks = append(blocks, strings.TrimRight(sb.String(), "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

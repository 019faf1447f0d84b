package console

import (
	"fmt"
	"io"
	"strings"

	"macromanager/internal/domain"
)

// RenderProfile prints one nutrient per line with three decimals, in profile order.
func RenderProfile(w io.Writer, profile *domain.NutrientProfile, quota domain.Quota) error {
	var b strings.Builder
	b.WriteString("\nTotal Nutrient Profile:\n")
	for _, entry := range profile.Entries() {
		fmt.Fprintf(&b, "  %s: %.3f %s\n", entry.Name, entry.Amount, entry.Unit)
	}
	if line := FormatQuota(quota); line != "" {
		b.WriteString("\n" + line + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatQuota describes the API quota, or returns "" when nothing was observed.
func FormatQuota(q domain.Quota) string {
	switch {
	case q.Limit == "" && q.Remaining == "":
		return ""
	case q.Limit == "":
		return fmt.Sprintf("API requests remaining: %s", q.Remaining)
	case q.Remaining == "":
		return fmt.Sprintf("API request limit: %s", q.Limit)
	default:
		return fmt.Sprintf("API requests remaining: %s of %s", q.Remaining, q.Limit)
	}
}

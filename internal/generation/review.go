package generation

import (
	"fmt"
	"strings"

	"github.com/abhisek/lessonkit/internal/llm"
)

// Report is the structured answer of a review stage.
type Report struct {
	Summary  string    `json:"summary"`
	Findings []Finding `json:"findings"`
}

type Finding struct {
	Section        string `json:"section"`
	Issue          string `json:"issue"`
	Recommendation string `json:"recommendation"`
	Severity       string `json:"severity"`
}

var reviewSchema = &llm.Schema{
	Name:        "review_report",
	Description: "Review findings for generated lesson materials",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
			"findings": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"section":        map[string]any{"type": "string"},
						"issue":          map[string]any{"type": "string"},
						"recommendation": map[string]any{"type": "string"},
						"severity":       map[string]any{"type": "string", "enum": []any{"low", "medium", "high"}},
					},
					"required":             []any{"section", "issue", "recommendation", "severity"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"summary", "findings"},
		"additionalProperties": false,
	},
}

// Markdown renders the report as a summary paragraph and a findings table.
func (r *Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Summary:** %s\n\n", cell(r.Summary))

	if len(r.Findings) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	b.WriteString("| Section | Issue | Recommendation | Severity |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			cell(f.Section), cell(f.Issue), cell(f.Recommendation), severityLabel(f.Severity))
	}
	return b.String()
}

// Counts returns the number of findings per severity.
func (r *Report) Counts() map[string]int {
	out := make(map[string]int, 3)
	for _, f := range r.Findings {
		out[f.Severity]++
	}
	return out
}

// cell flattens s onto one line. Pipes would split a table cell, so they
// become slashes.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "/")
	return strings.Join(strings.Fields(s), " ")
}

func severityLabel(s string) string {
	switch s {
	case "low":
		return "Low"
	case "medium":
		return "Medium"
	case "high":
		return "High"
	}
	return cell(s)
}

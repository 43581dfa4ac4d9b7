package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessmentPlan(t *testing.T) {
	items := AssessmentPlan()
	require.Len(t, items, 56)

	feedback := 0
	for i, it := range items {
		assert.Equal(t, i+1, it.Number)
		if it.Feedback {
			feedback++
		}
	}
	assert.Equal(t, 22, feedback)

	assert.Equal(t, "Instructional Segment 1 Item 1 (Objective 1 DOK Low)", items[0].Label)
	assert.Equal(t, "Instructional Segment 4 Item 2 (Objective 3 DOK 3)", items[7].Label)
	assert.Equal(t, "Objective 1 DOK 1 SSA Item 1", items[8].Label)
	assert.Equal(t, "Objective 3 DOK 3 SSA Item 2", items[21].Label)
	assert.Equal(t, "Objective 1 DOK 1 Assessment Item 1", items[22].Label)
	assert.False(t, items[22].Feedback)
	assert.Equal(t, "Objective 3 DOK 3 Assessment Item 4", items[55].Label)
}

func TestBlueprint(t *testing.T) {
	got, err := Blueprint(BlueprintInput{
		Title:      "The Regions of Alabama",
		LessonInfo: "Question: How does geography shape Alabama?",
		Reference:  "Document: notes.txt\nCoastal Plain facts\n\n",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "### Reference Materials"))
	assert.Contains(t, got, "Coastal Plain facts")
	assert.Contains(t, got, "Lesson Title: The Regions of Alabama")
	assert.Contains(t, got, "Lesson Information: Question: How does geography shape Alabama?")
	assert.Contains(t, got, "Additional Resources: None provided")
	assert.Contains(t, got, "# The Regions of Alabama")
	assert.Contains(t, got, "**Closing Connection**")
}

func TestAssessmentListsEveryItem(t *testing.T) {
	got, err := Assessment("# Blueprint body")
	require.NoError(t, err)

	assert.Contains(t, got, "1. Instructional Segment 1 Item 1 (Objective 1 DOK Low) - needs Feedback")
	assert.Contains(t, got, "22. Objective 3 DOK 3 SSA Item 2 - needs Feedback")
	assert.Contains(t, got, "\n56. Objective 3 DOK 3 Assessment Item 4\n")
	assert.NotContains(t, got, "Assessment Item 4 - needs Feedback")
	assert.Contains(t, got, "# Blueprint body")
}

func TestMedia(t *testing.T) {
	got, err := Media("BLUEPRINT-TEXT", "ASSESSMENT-TEXT")
	require.NoError(t, err)

	assert.Less(t, strings.Index(got, "BLUEPRINT-TEXT"), strings.Index(got, "ASSESSMENT-TEXT"))
	assert.Contains(t, got, "- **Media Type**:")
}

func TestReviews(t *testing.T) {
	in := ReviewInput{Title: "Rivers", Blueprint: "B", Assessment: "A", Media: "M"}

	fc, err := FactCheck(in)
	require.NoError(t, err)
	assert.Contains(t, fc, `"Rivers"`)
	assert.Contains(t, fc, "answer keys")

	dei, err := DEICheck(in)
	require.NoError(t, err)
	assert.Contains(t, dei, "stereotypes")
	assert.Contains(t, dei, "## Media Suggestions\nM")
}

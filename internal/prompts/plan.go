package prompts

import "fmt"

// AssessmentItem is one item the assessment prompt asks the model to write.
type AssessmentItem struct {
	Number   int
	Label    string
	Feedback bool
}

// itemsPerDOK is how many summative assessment items each DOK level gets
// for a single objective.
var itemsPerDOK = map[int]int{1: 4, 2: 6, 3: 4}

// objectiveDOKs lists the DOK levels covered for each of the three objectives.
var objectiveDOKs = [][]int{
	{1, 2},
	{1, 2},
	{1, 2, 3},
}

var instructionalSegments = []struct {
	segment   int
	objective int
	dok       string
}{
	{1, 1, "DOK Low"},
	{2, 2, "DOK Low"},
	{3, 3, "DOK High"},
	{4, 3, "DOK 3"},
}

// AssessmentPlan returns the full list of required assessment items in
// order: instructional segment items, self-study assignment items, then
// summative assessment items. Only the first two groups need feedback.
func AssessmentPlan() []AssessmentItem {
	var items []AssessmentItem
	add := func(label string, feedback bool) {
		items = append(items, AssessmentItem{
			Number:   len(items) + 1,
			Label:    label,
			Feedback: feedback,
		})
	}

	for _, s := range instructionalSegments {
		for n := 1; n <= 2; n++ {
			add(fmt.Sprintf("Instructional Segment %d Item %d (Objective %d %s)", s.segment, n, s.objective, s.dok), true)
		}
	}

	for i, doks := range objectiveDOKs {
		for _, dok := range doks {
			for n := 1; n <= 2; n++ {
				add(fmt.Sprintf("Objective %d DOK %d SSA Item %d", i+1, dok, n), true)
			}
		}
	}

	for i, doks := range objectiveDOKs {
		for _, dok := range doks {
			for n := 1; n <= itemsPerDOK[dok]; n++ {
				add(fmt.Sprintf("Objective %d DOK %d Assessment Item %d", i+1, dok, n), false)
			}
		}
	}

	return items
}

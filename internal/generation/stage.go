package generation

// Stage identifies one generation step.
type Stage string

const (
	StageBlueprint  Stage = "blueprint"
	StageAssessment Stage = "assessment"
	StageMedia      Stage = "media"
	StageFactCheck  Stage = "fact-check"
	StageDEICheck   Stage = "dei-check"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageBlueprint, StageAssessment, StageMedia, StageFactCheck, StageDEICheck}

// Label is the human-readable name used in progress and error text.
func (s Stage) Label() string {
	switch s {
	case StageBlueprint:
		return "lesson blueprint"
	case StageAssessment:
		return "assessment items"
	case StageMedia:
		return "media suggestions"
	case StageFactCheck:
		return "fact-check report"
	case StageDEICheck:
		return "DEI review"
	}
	return string(s)
}

// Title is Label in title case, for tabs and headings.
func (s Stage) Title() string {
	switch s {
	case StageBlueprint:
		return "Lesson Blueprint"
	case StageAssessment:
		return "Assessment Items"
	case StageMedia:
		return "Media Suggestions"
	case StageFactCheck:
		return "Fact-Check Report"
	case StageDEICheck:
		return "DEI Review"
	}
	return string(s)
}

// IsReview reports whether the stage produces a structured review report.
func (s Stage) IsReview() bool {
	return s == StageFactCheck || s == StageDEICheck
}

// ParseStage accepts a stage name as printed by Stage.
func ParseStage(name string) (Stage, bool) {
	for _, s := range Stages {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// Package prompts renders the instruction prompts sent to the language model
// for each generation stage.
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("prompts").
		Funcs(template.FuncMap{"orNone": orNone}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// BlueprintInput holds everything the blueprint prompt interpolates.
type BlueprintInput struct {
	Title               string
	LessonInfo          string
	AdditionalResources string
	Reference           string
}

// ReviewInput holds the generated material a review prompt inspects.
type ReviewInput struct {
	Title      string
	Blueprint  string
	Assessment string
	Media      string
}

type assessmentData struct {
	Blueprint string
	Items     []AssessmentItem
}

type mediaData struct {
	Blueprint  string
	Assessment string
}

// Blueprint renders the lesson blueprint prompt.
func Blueprint(in BlueprintInput) (string, error) {
	return render("blueprint.tmpl", in)
}

// Assessment renders the assessment items prompt for a blueprint.
func Assessment(blueprint string) (string, error) {
	return render("assessment.tmpl", assessmentData{
		Blueprint: blueprint,
		Items:     AssessmentPlan(),
	})
}

// Media renders the media suggestions prompt.
func Media(blueprint, assessment string) (string, error) {
	return render("media.tmpl", mediaData{Blueprint: blueprint, Assessment: assessment})
}

// FactCheck renders the fact-check review prompt.
func FactCheck(in ReviewInput) (string, error) {
	return render("factcheck.tmpl", in)
}

// DEICheck renders the diversity, equity and inclusion review prompt.
func DEICheck(in ReviewInput) (string, error) {
	return render("dei.tmpl", in)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None provided"
	}
	return strings.TrimSpace(s)
}

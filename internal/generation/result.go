package generation

import "fmt"

// Result is the outcome of one stage: generated text, or the failure cause.
type Result struct {
	Stage   Stage
	Content string
	Err     error

	// Report is set for review stages that returned a structured report.
	Report *Report
}

func (r Result) OK() bool { return r.Err == nil }

// Text returns the content on success and
// "Error generating <label>: <cause>" on failure. This is also the text
// that flows into later prompts under ContinueOnFailure.
func (r Result) Text() string {
	if r.Err != nil {
		return fmt.Sprintf("Error generating %s: %v", r.Stage.Label(), r.Err)
	}
	return r.Content
}

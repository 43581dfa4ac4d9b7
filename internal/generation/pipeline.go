package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lessonkit/internal/llm"
	"github.com/abhisek/lessonkit/internal/logger"
	"github.com/abhisek/lessonkit/internal/prompts"
)

// ErrMissingLessonInfo is returned for an Input without lesson information.
var ErrMissingLessonInfo = errors.New("please provide lesson information")

// Policy decides what happens after a stage fails.
type Policy int

const (
	// HaltOnFailure stops the run; later stages are not generated.
	HaltOnFailure Policy = iota
	// ContinueOnFailure feeds the failed stage's error text to later
	// stages as if it were content.
	ContinueOnFailure
)

func (p Policy) String() string {
	if p == ContinueOnFailure {
		return "continue"
	}
	return "halt"
}

// ParsePolicy accepts "halt", "continue" or "" (halt).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "halt":
		return HaltOnFailure, nil
	case "continue":
		return ContinueOnFailure, nil
	}
	return HaltOnFailure, fmt.Errorf("unknown failure policy %q (want halt or continue)", s)
}

// Input is what the lesson developer enters.
type Input struct {
	Title               string
	LessonInfo          string
	AdditionalResources string

	// Reference is the loaded reference material blob.
	Reference string
}

func (in Input) Validate() error {
	if strings.TrimSpace(in.LessonInfo) == "" {
		return ErrMissingLessonInfo
	}
	return nil
}

// Outcome holds the results of one run.
type Outcome struct {
	ID        uuid.UUID
	Title     string
	CreatedAt time.Time
	Results   map[Stage]Result

	// HasResults is true once at least one stage has produced a result.
	HasResults bool

	// Halted is true when a failure stopped the run early.
	Halted   bool
	Duration time.Duration
}

// Result returns the result for stage; ok is false if it never ran.
func (o *Outcome) Result(stage Stage) (Result, bool) {
	r, ok := o.Results[stage]
	return r, ok
}

// Failed lists the stages that ran and failed, in stage order.
func (o *Outcome) Failed() []Stage {
	var out []Stage
	for _, s := range Stages {
		if r, ok := o.Results[s]; ok && !r.OK() {
			out = append(out, s)
		}
	}
	return out
}

// Complete reports whether every stage ran and succeeded.
func (o *Outcome) Complete() bool {
	return len(o.Results) == len(Stages) && len(o.Failed()) == 0
}

// Pipeline runs the stages in order: blueprint, assessment, media,
// fact-check, DEI review.
type Pipeline struct {
	client *Client
	policy Policy
	log    *logger.Logger
}

func NewPipeline(client *Client, policy Policy, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{client: client, policy: policy, log: log}
}

func (p *Pipeline) Policy() Policy { return p.policy }

// Run is one in-progress generation. Step drives one stage at a time so a
// UI can show progress between calls. A Run is not safe for concurrent use.
type Run struct {
	p       *Pipeline
	in      Input
	next    int
	outcome *Outcome
	started time.Time
}

// Begin validates in and starts a run.
func (p *Pipeline) Begin(in Input) (*Run, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Run{
		p:  p,
		in: in,
		outcome: &Outcome{
			ID:        uuid.New(),
			Title:     strings.TrimSpace(in.Title),
			CreatedAt: now,
			Results:   make(map[Stage]Result, len(Stages)),
		},
		started: now,
	}, nil
}

// Next returns the stage Step will run, or false when the run is over.
func (r *Run) Next() (Stage, bool) {
	if r.outcome.Halted || r.next >= len(Stages) {
		return "", false
	}
	return Stages[r.next], true
}

// Total is the number of stages in a full run.
func (r *Run) Total() int { return len(Stages) }

// Done is the number of stages already stepped.
func (r *Run) Done() int { return r.next }

// Step runs the next stage. Calling it after the run is over returns a
// failed Result.
func (r *Run) Step(ctx context.Context) Result {
	stage, ok := r.Next()
	if !ok {
		return Result{Err: errors.New("generation run is already finished")}
	}
	ctx = llm.WithRunID(ctx, r.outcome.ID.String())

	r.p.log.Info("generating", "stage", stage, "run", r.outcome.ID)
	res := r.runStage(ctx, stage)

	r.next++
	r.outcome.Results[stage] = res
	r.outcome.HasResults = true
	r.outcome.Duration = time.Since(r.started)
	if !res.OK() && r.p.policy == HaltOnFailure {
		r.outcome.Halted = r.next < len(Stages)
		r.p.log.Warn("generation halted", "stage", stage, "error", res.Err)
	}
	return res
}

// Outcome returns the results so far.
func (r *Run) Outcome() *Outcome { return r.outcome }

func (r *Run) text(stage Stage) string {
	return r.outcome.Results[stage].Text()
}

func (r *Run) runStage(ctx context.Context, stage Stage) Result {
	var (
		prompt string
		err    error
	)
	review := prompts.ReviewInput{
		Title:      r.in.Title,
		Blueprint:  r.text(StageBlueprint),
		Assessment: r.text(StageAssessment),
		Media:      r.text(StageMedia),
	}

	switch stage {
	case StageBlueprint:
		prompt, err = prompts.Blueprint(prompts.BlueprintInput{
			Title:               r.in.Title,
			LessonInfo:          r.in.LessonInfo,
			AdditionalResources: r.in.AdditionalResources,
			Reference:           r.in.Reference,
		})
	case StageAssessment:
		prompt, err = prompts.Assessment(review.Blueprint)
	case StageMedia:
		prompt, err = prompts.Media(review.Blueprint, review.Assessment)
	case StageFactCheck:
		prompt, err = prompts.FactCheck(review)
	case StageDEICheck:
		prompt, err = prompts.DEICheck(review)
	}
	if err != nil {
		return Result{Stage: stage, Err: fmt.Errorf("build prompt: %w", err)}
	}

	if stage.IsReview() {
		return r.p.client.Review(ctx, stage, prompt)
	}
	return r.p.client.Generate(ctx, stage, prompt)
}

// Event reports progress of Pipeline.Run.
type Event struct {
	Stage Stage
	Index int // zero-based stage index
	Total int

	// Done is false when the stage starts and true when Result is set.
	Done   bool
	Result Result
}

// Run executes every stage and returns the outcome. progress may be nil.
// Stage failures are part of the outcome; the error is only for invalid
// input.
func (p *Pipeline) Run(ctx context.Context, in Input, progress func(Event)) (*Outcome, error) {
	run, err := p.Begin(in)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(Event) {}
	}

	for {
		stage, ok := run.Next()
		if !ok {
			break
		}
		idx := run.Done()
		progress(Event{Stage: stage, Index: idx, Total: run.Total()})
		res := run.Step(ctx)
		progress(Event{Stage: stage, Index: idx, Total: run.Total(), Done: true, Result: res})
	}

	out := run.Outcome()
	p.log.Info("generation finished", "run", out.ID, "failed", len(out.Failed()),
		"halted", out.Halted, "duration", out.Duration)
	return out, nil
}

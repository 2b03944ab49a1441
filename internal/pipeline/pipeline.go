package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/phishscan/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the submission as left
// by the previous steps.
type Step interface {
	// Do executes the step. Recoverable problems (such as a failed
	// asynchronous submission) are recorded on the submission and nil is
	// returned; a returned error stops the pipeline.
	Do(ctx context.Context, sub *model.Submission) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
	now    func() time.Time
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithClock sets the clock used to stamp submissions.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in order and stops at the first error, which is
// also recorded on the submission.
//
// Cancellation is checked between steps only. A submission that is already
// on the wire is not cancelled.
func (p *Pipeline) Execute(ctx context.Context, sub *model.Submission) error {
	sub.StartedAt = p.now()
	defer func() {
		sub.FinishedAt = p.now()
	}()

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			sub.SetError(ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"url", sub.Input,
		)

		if err := step.Do(ctx, sub); err != nil {
			p.logger.Info("submission stopped",
				"step", step.Name(),
				"url", sub.Input,
				"error", err,
			)
			sub.SetError(err)
			sub.Steps = append(sub.Steps, step.Name())
			return err
		}
		sub.Steps = append(sub.Steps, step.Name())
	}

	p.logger.Info("submission finished",
		"url", sub.Input,
		"label", sub.Label,
		"navigation", sub.Navigation.Kind.String(),
		"recorded", sub.Recorded,
	)
	return nil
}

// Run creates a submission for input and action and executes it.
func (p *Pipeline) Run(ctx context.Context, input, action string) (*model.Submission, error) {
	sub := model.NewSubmission(input, action)
	err := p.Execute(ctx, sub)
	return sub, err
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

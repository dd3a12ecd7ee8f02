package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/wordcrawl/internal/model"
)

// Step is one stage of request processing. Each step reads what earlier
// steps left on the report and adds its own part.
type Step interface {
	// Do advances report. A returned error aborts the request; problems
	// that still leave a usable result belong on the report instead.
	Do(ctx context.Context, report *model.Report) error

	// Name identifies the step in logs and Report.PerformedSteps.
	Name() string
}

// Pipeline runs a fixed sequence of steps over one report.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. The default is to stop on the first error.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{logger: slog.Default()}
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

// Execute runs the steps in order against report and stamps its duration.
// Cancellation is checked before each step; steps that block check the
// context themselves. With continueOnError unset the first failing step
// stops the run and its error is returned; either way the error is
// recorded on the report.
func (p *Pipeline) Execute(ctx context.Context, report *model.Report) error {
	defer report.Finish()

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "article", report.Article, "reason", err)
			report.Cancelled = true
			report.SetError(err)
			return err
		}

		if err := p.run(ctx, step, report); err != nil && !p.continueOnError {
			return err
		}
	}

	return nil
}

// run executes one step and records it as performed unless it failed and
// the pipeline stops on error.
func (p *Pipeline) run(ctx context.Context, step Step, report *model.Report) error {
	started := time.Now()
	err := step.Do(ctx, report)
	elapsed := time.Since(started)

	if err != nil {
		p.logger.Warn("step failed", "step", step.Name(), "article", report.Article, "elapsed", elapsed, "error", err)
		report.SetError(err)
		if !p.continueOnError {
			return err
		}
	} else {
		p.logger.Debug("step done", "step", step.Name(), "article", report.Article, "elapsed", elapsed)
	}

	report.PerformedSteps = append(report.PerformedSteps, step.Name())
	return err
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

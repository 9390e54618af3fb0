package operations

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"bankpipe/internal/dataprocessing"
)

// Options configures a pipeline run.
type Options struct {
	Cleaner   dataprocessing.CleanerConfig
	Validator dataprocessing.ValidatorConfig
	// DestructiveReconcile rewrites balance chains during correction
	// instead of flagging mismatches during validation.
	DestructiveReconcile bool
	// Aliases overrides the default column alias table.
	Aliases dataprocessing.AliasTable
}

// DefaultOptions returns the standard pipeline policy.
func DefaultOptions() Options {
	return Options{
		Cleaner:   dataprocessing.DefaultCleanerConfig(),
		Validator: dataprocessing.DefaultValidatorConfig(),
	}
}

// Runner executes the processing pipeline steps sequentially over a raw
// dataset, tracking per-step state and timing.
type Runner struct {
	logger *slog.Logger
	steps  []Step
}

// NewRunner wires the pipeline steps from the given options.
func NewRunner(logger *slog.Logger, opts Options) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	cleaner := dataprocessing.NewCleaner(logger, opts.Aliases, opts.Cleaner)
	corrector := dataprocessing.NewCorrector(logger, opts.Validator.Epsilon)
	validator := dataprocessing.NewValidator(logger, opts.Validator)

	return &Runner{
		logger: logger,
		steps: []Step{
			NewCleanStep(cleaner),
			NewCorrectStep(corrector, opts.DestructiveReconcile),
			NewValidateStep(validator, logger),
		},
	}
}

// Run executes every step in order against a fresh run state. The first
// step failure aborts the run; remaining steps are marked skipped.
func (r *Runner) Run(ctx context.Context, rows []dataprocessing.RawRow) (*State, error) {
	state := NewState(uuid.New().String(), rows)
	state.Start()

	r.logger.InfoContext(ctx, "pipeline run started",
		slog.String("run_id", state.ID),
		slog.Int("raw_rows", len(rows)))

	failed := false
	for _, step := range r.steps {
		st := state.StepState(step.ID(), step.Name())

		if failed {
			st.Skip("previous step failed")
			continue
		}
		if err := ctx.Err(); err != nil {
			state.Cancel()
			return state, NewCancellationError(step.ID())
		}
		if err := step.Validate(state); err != nil {
			st.Fail(err)
			state.Fail(err)
			failed = true
			continue
		}

		st.Start()
		if err := step.Execute(ctx, state); err != nil {
			st.Fail(err)
			state.Fail(err)
			failed = true
			r.logger.ErrorContext(ctx, "pipeline step failed",
				slog.String("run_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			continue
		}
		st.Complete()

		r.logger.InfoContext(ctx, "pipeline step completed",
			slog.String("run_id", state.ID),
			slog.String("step", step.ID()),
			slog.Duration("duration", st.Duration()))
	}

	if failed {
		return state, state.Error
	}
	state.Complete()

	r.logger.InfoContext(ctx, "pipeline run completed",
		slog.String("run_id", state.ID),
		slog.Int("valid_records", state.Report.ValidRecords),
		slog.Int("invalid_records", state.Report.InvalidRecords),
		slog.Duration("duration", state.Duration()))

	return state, nil
}

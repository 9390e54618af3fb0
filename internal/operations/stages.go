package operations

import (
	"context"
	"log/slog"

	"bankpipe/internal/dataprocessing"
	"bankpipe/pkg/contracts/domain"
)

// Step ids, in pipeline order.
const (
	StepIDClean    = "clean"
	StepIDCorrect  = "correct"
	StepIDValidate = "validate"
)

// CleanStep turns raw rows into typed transactions and records the
// admission counts.
type CleanStep struct {
	cleaner *dataprocessing.Cleaner
}

// NewCleanStep creates the cleaning step.
func NewCleanStep(cleaner *dataprocessing.Cleaner) *CleanStep {
	return &CleanStep{cleaner: cleaner}
}

func (s *CleanStep) ID() string   { return StepIDClean }
func (s *CleanStep) Name() string { return "Record Cleaning" }

func (s *CleanStep) Validate(state *State) error {
	if state.RawRows == nil {
		return NewInvalidStateError(s.ID(), "no raw rows to clean")
	}
	return nil
}

func (s *CleanStep) Execute(ctx context.Context, state *State) error {
	records, rejected, err := s.cleaner.CleanAll(ctx, state.RawRows)
	if err != nil {
		return NewExecutionError(s.ID(), err)
	}
	state.Records = records
	state.Report.SuccessfullyCleaned = len(records)
	_ = rejected // implied by TotalRawRecords - SuccessfullyCleaned
	return nil
}

// CorrectStep runs the corrective passes: age mode correction and
// deduplication always, destructive balance reconciliation only when
// explicitly enabled (it must not be combined with the validator's
// non-destructive balance check).
type CorrectStep struct {
	corrector            *dataprocessing.Corrector
	destructiveReconcile bool
}

// NewCorrectStep creates the correction step.
func NewCorrectStep(corrector *dataprocessing.Corrector, destructiveReconcile bool) *CorrectStep {
	return &CorrectStep{corrector: corrector, destructiveReconcile: destructiveReconcile}
}

func (s *CorrectStep) ID() string   { return StepIDCorrect }
func (s *CorrectStep) Name() string { return "Edge-Case Correction" }

func (s *CorrectStep) Validate(state *State) error {
	if state.Records == nil {
		return NewInvalidStateError(s.ID(), "no cleaned records to correct")
	}
	return nil
}

func (s *CorrectStep) Execute(ctx context.Context, state *State) error {
	records, corrections := s.corrector.CorrectAges(ctx, state.Records)
	records, duplicates := s.corrector.RemoveDuplicates(ctx, records)
	if s.destructiveReconcile {
		var rewritten int
		records, rewritten = s.corrector.ReconcileBalances(ctx, records)
		state.Report.BalancesRewritten = rewritten
	}
	state.Records = records
	state.AgeCorrections = corrections
	state.Duplicates = duplicates
	state.Report.AgeCorrections = len(corrections)
	state.Report.DuplicatesRemoved = len(duplicates)
	return nil
}

// ValidateStep applies the business rules and splits the record set into
// the valid output and the issue list.
type ValidateStep struct {
	validator      *dataprocessing.Validator
	skipBalanceLog bool
	logger         *slog.Logger
}

// NewValidateStep creates the validation step.
func NewValidateStep(validator *dataprocessing.Validator, logger *slog.Logger) *ValidateStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidateStep{validator: validator, logger: logger}
}

func (s *ValidateStep) ID() string   { return StepIDValidate }
func (s *ValidateStep) Name() string { return "Business-Rule Validation" }

func (s *ValidateStep) Validate(state *State) error {
	if state.Records == nil {
		return NewInvalidStateError(s.ID(), "no corrected records to validate")
	}
	return nil
}

func (s *ValidateStep) Execute(ctx context.Context, state *State) error {
	result := s.validator.Validate(ctx, state.Records)
	state.Valid = result.Valid
	state.Issues = result.Issues
	state.Summary = result.Summary
	state.Report.ValidRecords = result.Summary.Valid
	state.Report.InvalidRecords = result.Summary.Invalid
	for reason, n := range result.Summary.ByReason {
		state.Report.ErrorsByType[reason] += n
	}
	for _, issue := range result.Issues {
		if issue.Severity == domain.SeverityError {
			s.logger.DebugContext(ctx, "validation error",
				slog.Int("record_index", issue.RecordIndex),
				slog.Int64("customer_id", issue.CustomerID),
				slog.String("reason", issue.Reason))
		}
	}
	return nil
}

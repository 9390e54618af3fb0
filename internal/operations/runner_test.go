package operations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankpipe/internal/dataprocessing"
	"bankpipe/internal/shared/testutil"
)

func sampleRows() []dataprocessing.RawRow {
	return []dataprocessing.RawRow{
		{
			"Customer ID":        "1",
			"Transaction Date":   "2024-01-01",
			"Transaction Type":   "Deposit",
			"Transaction Amount": "100",
			"Account Balance":    "100",
			"Age":                "30",
		},
		{
			"Customer ID":        "1",
			"Transaction Date":   "2024-01-02",
			"Transaction Type":   "Withdrawal",
			"Transaction Amount": "30",
			"Account Balance":    "70",
			"Age":                "31",
		},
		{
			"Customer ID":        "1",
			"Transaction Date":   "2024-01-02",
			"Transaction Type":   "Withdrawal",
			"Transaction Amount": "30",
			"Account Balance":    "70",
			"Age":                "31",
		},
		{
			"Customer ID":        "nope",
			"Transaction Date":   "2024-01-03",
			"Transaction Amount": "10",
		},
	}
}

func TestRunner_Run(t *testing.T) {
	logger, handler := testutil.NewTestLogger()
	runner := NewRunner(logger, DefaultOptions())

	state, err := runner.Run(context.Background(), sampleRows())
	require.NoError(t, err)
	require.NotNil(t, state)

	assert.Equal(t, RunStatusCompleted, state.GetStatus())
	assert.NotEmpty(t, state.ID)

	assert.Equal(t, 4, state.Report.TotalRawRecords)
	assert.Equal(t, 3, state.Report.SuccessfullyCleaned)
	assert.Equal(t, 1, state.Report.CouldNotClean())
	assert.Equal(t, 1, state.Report.DuplicatesRemoved)
	assert.Equal(t, 1, state.Report.AgeCorrections) // ages 30 vs 31 collapse to mode
	assert.Equal(t, 2, state.Report.ValidRecords)
	assert.Equal(t, 0, state.Report.InvalidRecords)
	assert.Len(t, state.Valid, 2)

	for _, id := range []string{StepIDClean, StepIDCorrect, StepIDValidate} {
		st, ok := state.Steps[id]
		require.True(t, ok, "missing step %s", id)
		assert.Equal(t, StepStatusCompleted, st.Status)
	}

	testutil.AssertLogContains(t, handler, "pipeline run started")
	testutil.AssertLogContains(t, handler, "pipeline run completed")
	testutil.AssertNoErrors(t, handler)
}

func TestRunner_Run_EmptyInput(t *testing.T) {
	runner := NewRunner(nil, DefaultOptions())

	state, err := runner.Run(context.Background(), []dataprocessing.RawRow{})
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, state.GetStatus())
	assert.Zero(t, state.Report.ValidRecords)
}

func TestRunner_Run_NilRowsFailsCleanValidation(t *testing.T) {
	runner := NewRunner(nil, DefaultOptions())

	state, err := runner.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, RunStatusFailed, state.GetStatus())

	var perr *PipelineError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrorTypeInvalidState, perr.Type)
	assert.Equal(t, StepIDClean, perr.Step)

	// Later steps never ran.
	assert.Equal(t, StepStatusSkipped, state.Steps[StepIDCorrect].Status)
	assert.Equal(t, StepStatusSkipped, state.Steps[StepIDValidate].Status)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	runner := NewRunner(nil, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := runner.Run(ctx, sampleRows())
	require.Error(t, err)
	assert.Equal(t, RunStatusCancelled, state.GetStatus())

	var perr *PipelineError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrorTypeCancellation, perr.Type)
}

func TestRunner_Run_DestructiveReconcile(t *testing.T) {
	opts := DefaultOptions()
	opts.DestructiveReconcile = true
	runner := NewRunner(nil, opts)

	rows := []dataprocessing.RawRow{
		{
			"Customer ID":        "1",
			"Transaction Date":   "2024-01-01",
			"Transaction Type":   "Deposit",
			"Transaction Amount": "100",
			"Account Balance":    "100",
		},
		{
			"Customer ID":        "1",
			"Transaction Date":   "2024-01-02",
			"Transaction Type":   "Deposit",
			"Transaction Amount": "50",
			"Account Balance":    "999", // inconsistent, gets rewritten
		},
	}
	state, err := runner.Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Report.BalancesRewritten)
	// The rewritten chain passes validation without a mismatch issue.
	assert.Empty(t, state.Issues)
	require.Len(t, state.Valid, 2)
	require.True(t, state.Valid[1].HasBalance())
	assert.InDelta(t, 150, *state.Valid[1].BalanceAfter, 1e-9)
}

func TestPipelineError(t *testing.T) {
	t.Run("formatting with step", func(t *testing.T) {
		err := NewValidationError("clean", "bad input")
		assert.Equal(t, "[validation] clean: bad input", err.Error())
	})

	t.Run("unwrap", func(t *testing.T) {
		cause := assert.AnError
		err := NewExecutionError("clean", cause)
		assert.ErrorIs(t, err, cause)
	})
}

func TestStepState_Lifecycle(t *testing.T) {
	st := NewStepState("clean", "Record Cleaning")
	assert.Equal(t, StepStatusPending, st.Status)
	assert.Zero(t, st.Duration())

	st.Start()
	assert.Equal(t, StepStatusActive, st.Status)

	st.Complete()
	assert.Equal(t, StepStatusCompleted, st.Status)
	assert.GreaterOrEqual(t, st.Duration(), time.Duration(0))
}

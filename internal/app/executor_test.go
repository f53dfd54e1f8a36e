package app

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/mood-quote-service/internal/domain"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/metrics"
)

type recorder struct {
	steps []ExecutionStep
}

func (r *recorder) op(failAt ExecutionStep) Operation[string, string, string, string] {
	fail := func(step ExecutionStep) error {
		r.steps = append(r.steps, step)
		if step == failAt {
			return errors.New(string(step) + " boom")
		}
		return nil
	}

	return Operation[string, string, string, string]{
		Name:     "test.op",
		Validate: func(context.Context, string) error { return fail(StepValidate) },
		Perform: func(_ context.Context, in string) (string, error) {
			return in + ":performed", fail(StepPerform)
		},
		Verify: func(_ context.Context, _ string, p string) (string, error) {
			return p + ":verified", fail(StepVerify)
		},
		Archive: func(context.Context, string, string) error { return fail(StepArchive) },
		Respond: func(_ context.Context, _ string, v string) (string, error) {
			return v + ":responded", fail(StepRespond)
		},
	}
}

func TestExecute_RunsAllSteps(t *testing.T) {
	rec := &recorder{}

	out, err := Execute(context.Background(), NewExecutor(discardLogger(), nil), rec.op(""), "in")

	require.NoError(t, err)
	assert.Equal(t, "in:performed:verified:responded", out)
	assert.Equal(t, []ExecutionStep{StepValidate, StepPerform, StepVerify, StepArchive, StepRespond}, rec.steps)
}

func TestExecute_StopsAtFailingStep(t *testing.T) {
	tests := []struct {
		failAt    ExecutionStep
		wantSteps int
	}{
		{StepValidate, 1},
		{StepPerform, 2},
		{StepVerify, 3},
		{StepArchive, 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.failAt), func(t *testing.T) {
			rec := &recorder{}

			_, err := Execute(context.Background(), NewExecutor(discardLogger(), nil), rec.op(tt.failAt), "in")

			require.Error(t, err)
			assert.True(t, IsExecutionError(err))
			step, ok := GetExecutionStep(err)
			require.True(t, ok)
			assert.Equal(t, tt.failAt, step)
			assert.Len(t, rec.steps, tt.wantSteps)
		})
	}
}

func TestExecute_RespondErrorIsReturnedAsIs(t *testing.T) {
	rec := &recorder{}

	_, err := Execute(context.Background(), NewExecutor(nil, nil), rec.op(StepRespond), "in")

	require.EqualError(t, err, "respond boom")
	assert.False(t, IsExecutionError(err))
}

func TestExecute_NilStepsAreSkipped(t *testing.T) {
	out, err := Execute(context.Background(), NewExecutor(nil, nil), Operation[int, int, int, int]{Name: "empty"}, 1)

	require.NoError(t, err)
	assert.Zero(t, out)
}

func TestExecute_CanceledContextSkipsArchive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	archived := false
	op := Operation[int, int, int, int]{
		Name:    "cancel",
		Perform: func(context.Context, int) (int, error) { return 1, nil },
		Verify:  func(_ context.Context, _ int, p int) (int, error) { return p, nil },
		Archive: func(context.Context, int, int) error { archived = true; return nil },
	}

	_, err := Execute(ctx, NewExecutor(nil, nil), op, 0)

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, archived)
}

func TestExecutionError_Unwrap(t *testing.T) {
	cause := domain.NewValidationError("tag", "is required")
	err := NewStepError(StepValidate, "input validation failed", cause)

	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "validate failed: input validation failed")
	assert.Equal(t, "verify failed: no text", NewStepError(StepVerify, "no text", nil).Error())
}

func TestExecute_RecordsOutcome(t *testing.T) {
	rec := &recorder{}

	_, _ = Execute(context.Background(), NewExecutor(nil, nil), rec.op(StepVerify), "in")

	op := rec.op("")
	op.Name = "test.outcome"
	_, err := Execute(context.Background(), NewExecutor(nil, nil), op, "in")
	require.NoError(t, err)

	assert.Positive(t, testutil.CollectAndCount(metrics.OperationDuration, "moodquote_operation_duration_seconds"))
}

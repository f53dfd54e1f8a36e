package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/mood-quote-service/internal/platform/logging"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/metrics"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/telemetry"
)

// Quote refreshes run as validate, perform, verify, archive, respond. The
// session store is written in archive only, after the fetched quote has been
// verified, and never for a caller that has already gone away.

// ExecutionStep names one stage of an operation.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

const outcomeOK = "ok"

// ExecutionError records the step that stopped an operation.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// NewStepError builds the error returned when step fails.
func NewStepError(step ExecutionStep, message string, cause error) error {
	return &ExecutionError{Step: step, Message: message, Cause: cause}
}

// stepMessages is the message attached to a failure in each step.
var stepMessages = map[ExecutionStep]string{
	StepValidate: "input validation failed",
	StepPerform:  "operation failed",
	StepVerify:   "verification failed",
	StepArchive:  "state persistence failed",
}

// Executor runs operations and reports their duration.
type Executor struct {
	logger *slog.Logger
	clock  clockwork.Clock
}

// NewExecutor creates an executor. Nil arguments fall back to the default
// logger and the real clock.
func NewExecutor(logger *slog.Logger, clock clockwork.Clock) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Executor{logger: logger, clock: clock}
}

// Operation holds the function for each step. Nil steps are skipped and
// pass the zero value on.
type Operation[I, P, V, O any] struct {
	// Name labels logs and the duration metric.
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)

	// Archive is only reached with a verified value and a live context.
	Archive func(ctx context.Context, input I, verified V) error

	// Respond errors are returned unwrapped.
	Respond func(ctx context.Context, input I, verified V) (O, error)
}

// Execute runs op over input.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (out O, err error) {
	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := exec.clock.Now()
	outcome := outcomeOK

	ctx, span := telemetry.StartSpan(ctx, "operation."+op.Name)

	defer func() {
		metrics.OperationDuration.WithLabelValues(op.Name, outcome).Observe(exec.clock.Since(start).Seconds())
		telemetry.EndSpan(span, err, outcome)
	}()

	fail := func(step ExecutionStep, cause error) error {
		outcome = string(step)
		logger.WarnContext(ctx, "operation stopped", slog.String("step", string(step)), slog.Any("error", cause))
		return NewStepError(step, stepMessages[step], cause)
	}

	if op.Validate != nil {
		if err := op.Validate(ctx, input); err != nil {
			return out, fail(StepValidate, err)
		}
	}

	var performed P
	if op.Perform != nil {
		if performed, err = op.Perform(ctx, input); err != nil {
			return out, fail(StepPerform, err)
		}
	}

	var verified V
	if op.Verify != nil {
		if verified, err = op.Verify(ctx, input, performed); err != nil {
			return out, fail(StepVerify, err)
		}
	}

	if cause := ctx.Err(); cause != nil {
		outcome = string(StepArchive)
		logger.InfoContext(ctx, "caller gone, skipping archive", slog.Any("error", cause))
		return out, NewStepError(StepArchive, "caller abandoned operation", cause)
	}

	if op.Archive != nil {
		if err := op.Archive(ctx, input, verified); err != nil {
			return out, fail(StepArchive, err)
		}
	}

	if op.Respond != nil {
		if out, err = op.Respond(ctx, input, verified); err != nil {
			outcome = string(StepRespond)
			return out, err
		}
	}

	logger.DebugContext(ctx, "operation completed", slog.Duration("duration", exec.clock.Since(start)))

	return out, nil
}

// IsExecutionError reports whether err came from a failed step.
func IsExecutionError(err error) bool {
	var execErr *ExecutionError

	return errors.As(err, &execErr)
}

// GetExecutionStep extracts the failing step from err.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/oracle/internal/platform/logging"
)

// Pipeline Pattern: Validate → Perform → Verify → Respond
//
// Nothing reaches the caller until the result has been verified, so a failed
// step never leaves partial output behind.
//
// The 4 Steps:
//   1. VALIDATE  - Check and normalize inputs before any outbound call
//   2. PERFORM   - Execute the operation (call external service, process data)
//   3. VERIFY    - Confirm the result has the expected shape
//   4. RESPOND   - Hand the verified result to its consumer

// ExecutionStep represents a step of the pipeline.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError wraps errors with the step where they occurred.
type ExecutionError struct {
	Step  ExecutionStep
	Cause error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

func newExecutionError(step ExecutionStep, cause error) error {
	return &ExecutionError{Step: step, Cause: cause}
}

// Executor runs operations through the pipeline.
// It provides logging and error handling at each step.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates a new executor with the given logger.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation defines the functions for each step of the pipeline.
// A nil step is skipped and passes the zero value on.
type Operation[I, P, V, O any] struct {
	// Name identifies this operation for logging.
	Name string

	// Validate checks inputs and returns them normalized.
	// Return an error to abort before any outbound call.
	Validate func(ctx context.Context, input I) (I, error)

	// Perform executes the main operation.
	Perform func(ctx context.Context, input I) (P, error)

	// Verify confirms the operation produced a usable result.
	Verify func(ctx context.Context, input I, performed P) (V, error)

	// Respond delivers the verified result.
	// Called only after successful verification.
	Respond func(ctx context.Context, input I, verified V) (O, error)
}

// executionContext holds state during operation execution.
type executionContext[I, P, V, O any] struct {
	logger *slog.Logger
	op     Operation[I, P, V, O]
	input  I
}

func (e *executionContext[I, P, V, O]) runValidate(ctx context.Context) error {
	if e.op.Validate == nil {
		return nil
	}

	e.logger.DebugContext(ctx, "starting validation")

	input, err := e.op.Validate(ctx, e.input)
	if err != nil {
		e.logger.WarnContext(ctx, "validation failed", slog.Any("error", err))

		return newExecutionError(StepValidate, err)
	}

	e.input = input
	e.logger.DebugContext(ctx, "validation passed")

	return nil
}

func (e *executionContext[I, P, V, O]) runPerform(ctx context.Context) (P, error) {
	var zero P

	if e.op.Perform == nil {
		return zero, nil
	}

	e.logger.DebugContext(ctx, "performing operation")

	performed, err := e.op.Perform(ctx, e.input)
	if err != nil {
		e.logger.ErrorContext(ctx, "perform failed", slog.Any("error", err))

		return zero, newExecutionError(StepPerform, err)
	}

	e.logger.DebugContext(ctx, "operation performed")

	return performed, nil
}

func (e *executionContext[I, P, V, O]) runVerify(ctx context.Context, performed P) (V, error) {
	var zero V

	if e.op.Verify == nil {
		return zero, nil
	}

	e.logger.DebugContext(ctx, "verifying result")

	verified, err := e.op.Verify(ctx, e.input, performed)
	if err != nil {
		e.logger.ErrorContext(ctx, "verification failed", slog.Any("error", err))

		return zero, newExecutionError(StepVerify, err)
	}

	e.logger.DebugContext(ctx, "result verified")

	return verified, nil
}

func (e *executionContext[I, P, V, O]) runRespond(ctx context.Context, verified V) (O, error) {
	var zero O

	if e.op.Respond == nil {
		return zero, nil
	}

	e.logger.DebugContext(ctx, "responding")

	result, err := e.op.Respond(ctx, e.input, verified)
	if err != nil {
		e.logger.ErrorContext(ctx, "respond failed", slog.Any("error", err))

		return zero, newExecutionError(StepRespond, err)
	}

	return result, nil
}

// Execute runs an operation through the full pipeline.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var zero O

	logger := exec.logger
	if fromCtx := logging.FromContext(ctx); fromCtx != nil {
		logger = fromCtx
	}

	logger = logger.With(slog.String("operation", op.Name))
	start := time.Now()

	ec := &executionContext[I, P, V, O]{
		logger: logger,
		op:     op,
		input:  input,
	}

	if err := ec.runValidate(ctx); err != nil {
		return zero, err
	}

	performed, err := ec.runPerform(ctx)
	if err != nil {
		return zero, err
	}

	verified, err := ec.runVerify(ctx, performed)
	if err != nil {
		return zero, err
	}

	result, err := ec.runRespond(ctx, verified)
	if err != nil {
		return zero, err
	}

	logger.DebugContext(ctx, "operation completed",
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// IsExecutionError checks if an error occurred during execution.
func IsExecutionError(err error) bool {
	var execErr *ExecutionError

	return errors.As(err, &execErr)
}

// GetExecutionStep extracts the step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}

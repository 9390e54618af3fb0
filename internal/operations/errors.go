package operations

import (
	"fmt"
)

// ErrorType classifies a pipeline error.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeExecution    ErrorType = "execution"
	ErrorTypeCancellation ErrorType = "cancellation"
	ErrorTypeInvalidState ErrorType = "invalid_state"
)

// PipelineError is a step-scoped pipeline error with optional context.
type PipelineError struct {
	Type    ErrorType              `json:"type"`
	Step    string                 `json:"step,omitempty"`
	Message string                 `json:"message"`
	Cause   error                  `json:"cause,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Step, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewValidationError creates a validation error for a step.
func NewValidationError(step, message string) *PipelineError {
	return &PipelineError{Type: ErrorTypeValidation, Step: step, Message: message}
}

// NewExecutionError wraps a step execution failure.
func NewExecutionError(step string, cause error) *PipelineError {
	return &PipelineError{
		Type:    ErrorTypeExecution,
		Step:    step,
		Message: "step execution failed",
		Cause:   cause,
	}
}

// NewCancellationError records a cancelled run.
func NewCancellationError(step string) *PipelineError {
	return &PipelineError{
		Type:    ErrorTypeCancellation,
		Step:    step,
		Message: "pipeline cancelled",
	}
}

// NewInvalidStateError reports a step invoked against a state that is
// missing its inputs.
func NewInvalidStateError(step, message string) *PipelineError {
	return &PipelineError{Type: ErrorTypeInvalidState, Step: step, Message: message}
}

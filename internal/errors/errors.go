package errors

import "fmt"

// ErrorCode represents a tarotgen error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"  // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"        // 404
	ErrOracleMissing   ErrorCode = "ORACLE_MISSING"   // 500, fatal at startup
	ErrOracleMalformed ErrorCode = "ORACLE_MALFORMED" // 500, fatal at startup
	ErrIDCollision     ErrorCode = "ID_COLLISION"     // 409, retry budget exhausted
	ErrResponsesExist  ErrorCode = "RESPONSES_EXIST"  // 409
	ErrInternal        ErrorCode = "INTERNAL"         // 500
)

// PipelineError represents a structured error with code, status, and details.
type PipelineError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *PipelineError {
	return &PipelineError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing record or file.
func NewNotFound(identifier string) *PipelineError {
	return &PipelineError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewOracleMissing creates a fatal error for a missing oracle data file.
func NewOracleMissing(path string) *PipelineError {
	return &PipelineError{
		Code:    ErrOracleMissing,
		Status:  500,
		Message: fmt.Sprintf("required data file missing: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewOracleMalformed creates a fatal error for an unparseable oracle data file.
func NewOracleMalformed(path string, err error) *PipelineError {
	return &PipelineError{
		Code:    ErrOracleMalformed,
		Status:  500,
		Message: fmt.Sprintf("data file %s is malformed: %v", path, err),
		Details: map[string]any{"path": path},
	}
}

// NewIDCollision creates a 409 error when the collision retry budget runs out.
func NewIDCollision(id string, retries int) *PipelineError {
	return &PipelineError{
		Code:    ErrIDCollision,
		Status:  409,
		Message: fmt.Sprintf("prompt id %s still collides after %d re-samples", id, retries),
		Details: map[string]any{"id": id, "retries": retries},
	}
}

// NewResponsesExist creates a 409 error when a responses file already exists.
func NewResponsesExist(path string) *PipelineError {
	return &PipelineError{
		Code:    ErrResponsesExist,
		Status:  409,
		Message: fmt.Sprintf("responses file already exists: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *PipelineError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &PipelineError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a PipelineError with the given code.
func Is(err error, code ErrorCode) bool {
	if pErr, ok := err.(*PipelineError); ok {
		return pErr.Code == code
	}
	return false
}

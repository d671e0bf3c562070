package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/hygrotrack/internal/domain/activity"
	"github.com/rpggio/hygrotrack/internal/domain/record"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	cause        error
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// MapError maps domain errors to MCP error codes. Unknown errors return nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, record.ErrRecordNotFound):
		return &APIError{Code: "RECORD_NOT_FOUND", Message: "record not found", RecoveryHint: "Check the ID with list_records", cause: err}
	case errors.Is(err, record.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check department_policy for valid values", cause: err}
	case errors.Is(err, record.ErrWrongRecordType):
		return &APIError{Code: "WRONG_RECORD_TYPE", Message: err.Error(), RecoveryHint: "Spot checks apply to Environment records, re-checks to Product records", cause: err}
	case errors.Is(err, record.ErrFollowUpNotRequired):
		return &APIError{Code: "FOLLOW_UP_NOT_REQUIRED", Message: err.Error(), RecoveryHint: "Only records in Take Action accept follow-ups", cause: err}
	case errors.Is(err, record.ErrConflict):
		return &APIError{Code: "CONFLICT", Message: "record modified concurrently", RecoveryHint: "Reload with get_record and retry", cause: err}
	default:
		return nil
	}
}

func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

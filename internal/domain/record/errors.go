package record

import "errors"

var (
	// ErrRecordNotFound indicates the record doesn't exist.
	ErrRecordNotFound = errors.New("record not found")
	// ErrInvalidInput indicates invalid input for record operations.
	ErrInvalidInput = errors.New("invalid record input")
	// ErrWrongRecordType indicates a follow-up that doesn't apply to the record type.
	ErrWrongRecordType = errors.New("follow-up does not apply to record type")
	// ErrFollowUpNotRequired indicates a follow-up on a record that needs no action.
	ErrFollowUpNotRequired = errors.New("record does not require action")
	// ErrConflict indicates the record changed since it was loaded.
	ErrConflict = errors.New("record modified concurrently")
)

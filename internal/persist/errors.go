package persist

import (
	"errors"
	"fmt"
)

// StoreError represents a failure in the persistence layer.
//
// Store errors include:
//   - Open failures: the data directory or one of its databases cannot be
//     opened
//   - Invalid interval: a snapshot interval below the minimum
//   - Switch failures: the target of a directory switch cannot be opened
//   - Snapshot failures: an explicit snapshot request could not be served
type StoreError struct {
	// Code identifies the error category.
	Code StoreErrorCode

	// Op names the operation that failed.
	Op string

	// Err is the underlying cause, if any.
	Err error
}

// StoreErrorCode categorizes store errors.
type StoreErrorCode string

const (
	// ErrCodeOpenFailed indicates the data directory could not be opened.
	ErrCodeOpenFailed StoreErrorCode = "OPEN_FAILED"

	// ErrCodeInvalidInterval indicates a snapshot interval below the minimum.
	ErrCodeInvalidInterval StoreErrorCode = "INVALID_INTERVAL"

	// ErrCodeSwitchFailed indicates a directory switch whose target could
	// not be opened. The current directory remains active.
	ErrCodeSwitchFailed StoreErrorCode = "SWITCH_FAILED"

	// ErrCodeSnapshotFailed indicates an explicit snapshot could not be
	// written.
	ErrCodeSnapshotFailed StoreErrorCode = "SNAPSHOT_FAILED"
)

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Op)
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsOpenError returns true if the error is a data-directory open failure.
// Uses errors.As to handle wrapped errors.
func IsOpenError(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == ErrCodeOpenFailed
	}
	return false
}

// IsIntervalError returns true if the error is an invalid snapshot
// interval. Uses errors.As to handle wrapped errors.
func IsIntervalError(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == ErrCodeInvalidInterval
	}
	return false
}

// IsSwitchError returns true if the error is a failed directory switch.
// Uses errors.As to handle wrapped errors.
func IsSwitchError(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == ErrCodeSwitchFailed
	}
	return false
}

// IsSnapshotError returns true if the error is a failed snapshot write.
// Uses errors.As to handle wrapped errors.
func IsSnapshotError(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == ErrCodeSnapshotFailed
	}
	return false
}

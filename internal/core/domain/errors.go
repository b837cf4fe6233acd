// Package domain defines the core domain models for zfs-tool.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
// Codes have the form ZT-<AREA>-<NNNN>.
type DomainError struct {
	Code    string // Error code (e.g., "ZT-ARG-1001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid command line argument.
	ErrInvalidArgument = NewDomainError("ZT-ARG-1001", "invalid argument")

	// ErrInvalidSize indicates a size string that cannot be converted to bytes.
	ErrInvalidSize = NewDomainError("ZT-ARG-1002", "invalid size")

	// ErrInvalidDuration indicates a duration string without any known unit segment.
	ErrInvalidDuration = NewDomainError("ZT-ARG-1003", "invalid duration")

	// ErrInvalidPattern indicates a regular expression that does not compile.
	ErrInvalidPattern = NewDomainError("ZT-ARG-1004", "invalid pattern")

	// ErrInvalidFormat indicates an output template that cannot be rendered.
	ErrInvalidFormat = NewDomainError("ZT-ARG-1005", "invalid format")
)

// ============================================================================
// Tool Errors (ZFS)
// ============================================================================

var (
	// ErrToolUnavailable indicates the zfs binary is missing or not responding.
	ErrToolUnavailable = NewDomainError("ZT-ZFS-5030", "zfs tool unavailable")

	// ErrToolFailed indicates zfs exited with a non-zero status.
	ErrToolFailed = NewDomainError("ZT-ZFS-5000", "zfs command failed")

	// ErrRangeAcrossDatasets indicates a snapshot range whose ends belong to
	// different datasets. Such ranges are never sent to zfs.
	ErrRangeAcrossDatasets = NewDomainError("ZT-ZFS-4001", "from snapshot and to snapshot are not on the same dataset")

	// ErrMalformedRow indicates a listing row that could not be parsed.
	// It is recorded and the row skipped, never returned to callers.
	ErrMalformedRow = NewDomainError("ZT-ZFS-4002", "malformed listing row")
)

// ============================================================================
// Selection Errors (SEL)
// ============================================================================

var (
	// ErrNoSnapshots indicates the listing did not contain any snapshot.
	ErrNoSnapshots = NewDomainError("ZT-SEL-4040", "no snapshots found")

	// ErrEmptyAfterFilter indicates the per-dataset limit produced no snapshots.
	ErrEmptyAfterFilter = NewDomainError("ZT-SEL-4041", "limit resulted in empty list")

	// ErrInsufficientSpace indicates that destroying every candidate snapshot
	// would still not free the required space.
	ErrInsufficientSpace = NewDomainError("ZT-SEL-4090", "not enough snapshots to acquire required space")
)

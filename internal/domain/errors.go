package domain

import (
	"errors"
	"fmt"
)

// ValidationError rejects a malformed request before any optimization
// starts: empty catalog, negative budget or timeline, unknown tolerance.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Invalidf builds a ValidationError for a request field.
func Invalidf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DataQualityError marks an internally inconsistent catalog entry
// (e.g. cost_min > cost_max). It originates in the stored data, not the
// request, and is surfaced separately so callers fix the right thing.
type DataQualityError struct {
	StrategyID string
	Reason     string
}

func (e *DataQualityError) Error() string {
	if e.StrategyID == "" {
		return fmt.Sprintf("data quality: %s", e.Reason)
	}
	return fmt.Sprintf("data quality: strategy %s: %s", e.StrategyID, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsDataQuality reports whether err is (or wraps) a DataQualityError.
func IsDataQuality(err error) bool {
	var d *DataQualityError
	return errors.As(err, &d)
}

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

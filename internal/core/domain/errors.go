package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a record does not exist or is hidden
	// by the soft-delete filter.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned on a version mismatch or an invalid state
	// transition (deleting an already deleted record, restoring an active one).
	ErrConflict = errors.New("conflicting state change")

	// ErrCacheUnavailable signals that the cache backend could not be reached.
	// It never escapes the service layer; callers fall back to the repository.
	ErrCacheUnavailable = errors.New("cache backend unavailable")

	// ErrStorage wraps faults from the underlying database driver.
	ErrStorage = errors.New("storage error")
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates all field errors found on an entity.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(e.Fields))

	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// WrapStorage tags a driver-level fault so callers can match it with
// errors.Is(err, ErrStorage) without inspecting driver types.
func WrapStorage(err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%w: %v", ErrStorage, err)
}

package revision

import (
	"errors"
	"fmt"
)

var (
	// ErrRevisionNotFound indicates the revision doesn't exist.
	ErrRevisionNotFound = errors.New("revision not found")
	// ErrDuplicateRevisionNumber indicates the number is already used in its group.
	ErrDuplicateRevisionNumber = errors.New("duplicate revision number")
	// ErrNonSequentialRevisionNumber indicates the number skips or precedes the group's next number.
	ErrNonSequentialRevisionNumber = errors.New("non-sequential revision number")
	// ErrMissingRequiredField indicates a required field is absent.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrEntityNotFound indicates a referenced catalog entity doesn't exist.
	ErrEntityNotFound = errors.New("referenced entity not found")
	// ErrWorkNotInVenture indicates the work belongs to another venture.
	ErrWorkNotInVenture = errors.New("work does not belong to venture")
	// ErrInvalidInput indicates invalid revision input.
	ErrInvalidInput = errors.New("invalid revision input")
)

// SequenceError is a numbering failure. Kind is ErrDuplicateRevisionNumber or
// ErrNonSequentialRevisionNumber; Expected is the number the caller must use.
type SequenceError struct {
	Kind     error
	Number   int
	Expected int
}

func (e *SequenceError) Error() string {
	if errors.Is(e.Kind, ErrDuplicateRevisionNumber) {
		return fmt.Sprintf("revision number %d already exists in this group; next number is %d", e.Number, e.Expected)
	}
	return fmt.Sprintf("revision number %d is out of sequence; use %d", e.Number, e.Expected)
}

func (e *SequenceError) Unwrap() error { return e.Kind }

// MissingFieldError names the absent required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingRequiredField }

// ItemError is the failure of one element of a batch. Index is zero-based.
type ItemError struct {
	Index int
	ID    string
	Err   error
}

func (e ItemError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("item %d (%s): %v", e.Index+1, e.ID, e.Err)
	}
	return fmt.Sprintf("item %d: %v", e.Index+1, e.Err)
}

// BatchError reports every failing element of a rejected batch. Nothing of the
// batch was written.
type BatchError struct {
	Total int
	Items []ItemError
}

func (e *BatchError) Error() string {
	if len(e.Items) == 0 {
		return "batch rejected"
	}
	return fmt.Sprintf("%d of %d items rejected; first: %v", len(e.Items), e.Total, e.Items[0])
}

// Unwrap exposes the item errors to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Items))
	for i, item := range e.Items {
		errs[i] = item.Err
	}
	return errs
}

// Reason classifies a validation error for metrics and error codes.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateRevisionNumber):
		return "duplicate_number"
	case errors.Is(err, ErrNonSequentialRevisionNumber):
		return "non_sequential_number"
	case errors.Is(err, ErrMissingRequiredField):
		return "missing_field"
	case errors.Is(err, ErrEntityNotFound), errors.Is(err, ErrWorkNotInVenture):
		return "invalid_reference"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	}
	return "other"
}

// ReferenceError names a catalog reference that doesn't resolve for the owner.
type ReferenceError struct {
	Kind string
	ID   string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrEntityNotFound, e.Kind, e.ID)
}

func (e *ReferenceError) Unwrap() error { return ErrEntityNotFound }

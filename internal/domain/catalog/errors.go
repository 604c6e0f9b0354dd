package catalog

import "errors"

var (
	// ErrVentureNotFound indicates the venture doesn't exist.
	ErrVentureNotFound = errors.New("venture not found")
	// ErrWorkNotFound indicates the work doesn't exist.
	ErrWorkNotFound = errors.New("work not found")
	// ErrDisciplineNotFound indicates the discipline doesn't exist.
	ErrDisciplineNotFound = errors.New("discipline not found")
	// ErrDesignerNotFound indicates the designer doesn't exist.
	ErrDesignerNotFound = errors.New("designer not found")
	// ErrInvalidInput indicates invalid catalog input.
	ErrInvalidInput = errors.New("invalid catalog input")
	// ErrInUse indicates the entity is still referenced and cannot be deleted.
	ErrInUse = errors.New("entity is referenced by other records")
)

// notFound returns the not-found sentinel for a kind.
func notFound(kind Kind) error {
	switch kind {
	case KindVenture:
		return ErrVentureNotFound
	case KindWork:
		return ErrWorkNotFound
	case KindDiscipline:
		return ErrDisciplineNotFound
	default:
		return ErrDesignerNotFound
	}
}

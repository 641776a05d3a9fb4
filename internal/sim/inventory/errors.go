package inventory

import "errors"

var (
	// ErrBounds is a programming-contract violation: a position outside the
	// declared capacity. It is never silently clamped.
	ErrBounds = errors.New("inventory: position out of range")

	// ErrFull means no free slot; the failed add has no side effects.
	ErrFull = errors.New("inventory: no free slot")

	// ErrNotFound means the referenced slot is empty or the item is not
	// present in the container.
	ErrNotFound = errors.New("inventory: item not present")

	// ErrEmptyItem rejects storing the empty sentinel through Add.
	ErrEmptyItem = errors.New("inventory: refusing to add empty item")
)

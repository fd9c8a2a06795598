package csvexport

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput rejects serialization of an empty edit set.
	ErrEmptyInput = errors.New("no edits to serialize")

	// ErrNoModifications rejects validation of an empty edit set.
	ErrNoModifications = errors.New("no modifications to export")
)

// EmptyFieldSetError marks an edit entry whose partial has zero fields.
type EmptyFieldSetError struct {
	DeviceID string
}

func (e *EmptyFieldSetError) Error() string {
	return fmt.Sprintf("device %s has no modified fields", e.DeviceID)
}

package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by every lookup failure.
	ErrNotFound = errors.New("not found")

	ErrTaskNotFound         = fmt.Errorf("task %w", ErrNotFound)
	ErrProjectNotFound      = fmt.Errorf("project %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)

	// ErrInvalidInput indicates a payload that is not well-typed or fails
	// validation. No state is changed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPersist indicates the snapshot write failed after the in-memory
	// change was applied. The change stands and the write is retried on the
	// next mutation, Flush, or Close.
	ErrPersist = errors.New("persist snapshot")

	// ErrClosed is returned by mutations after Close.
	ErrClosed = errors.New("store is closed")
)

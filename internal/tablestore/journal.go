package tablestore

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type compensation struct {
	name string
	undo func(ctx context.Context) error
}

// journal records how to undo each write made inside a scope. A nil journal records nothing.
type journal struct {
	mu      sync.Mutex
	entries []compensation
}

func (j *journal) record(name string, undo func(ctx context.Context) error) {
	if j == nil {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = append(j.entries, compensation{name: name, undo: undo})
}

// compensate replays the undo steps newest first and keeps going past failures.
func (j *journal) compensate(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var errs []error
	for i := len(j.entries) - 1; i >= 0; i-- {
		entry := j.entries[i]
		if err := entry.undo(ctx); err != nil {
			errs = append(errs, fmt.Errorf("undo[%s]: %w", entry.name, err))
		}
	}
	j.entries = nil

	return errors.Join(errs...)
}

package state

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// writerSlot admits one read-write transaction at a time. Waiting for the
// slot ends when the caller's context does.
type writerSlot struct {
	sem *semaphore.Weighted
}

func newWriterSlot() writerSlot { return writerSlot{sem: semaphore.NewWeighted(1)} }

func (w writerSlot) acquire(ctx context.Context) error {
	// Acquire may succeed on a done context when the slot is free.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriterBusy, err)
	}
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %w", ErrWriterBusy, err)
	}
	return nil
}

func (w writerSlot) release() { w.sem.Release(1) }

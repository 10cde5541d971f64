package lock

import (
	"context"
	"errors"
	"testing"
)

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	err := locker.WithSlotLock(ctx, "2024-01-01:09:00 AM", func(ctx context.Context) error {
		// Re-entry on the held key must fail rather than deadlock.
		inner := locker.WithSlotLock(ctx, "2024-01-01:09:00 AM", func(ctx context.Context) error {
			return nil
		})
		if !errors.Is(inner, ErrNotAcquired) {
			t.Fatalf("expected ErrNotAcquired, got %v", inner)
		}

		// A different key is independent.
		if err := locker.WithSlotLock(ctx, "2024-01-01:10:00 AM", func(ctx context.Context) error {
			return nil
		}); err != nil {
			t.Fatalf("different key: %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithSlotLock: %v", err)
	}
}

func TestLocalLocker_ReleasesOnReturn(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	fail := errors.New("boom")
	if err := locker.WithSlotLock(ctx, "k", func(ctx context.Context) error { return fail }); !errors.Is(err, fail) {
		t.Fatalf("expected callback error, got %v", err)
	}

	// The key must be reusable after the callback errored.
	if err := locker.WithSlotLock(ctx, "k", func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("lock not released: %v", err)
	}
}

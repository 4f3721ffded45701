package razorpay

import (
	"context"
	"testing"
	"time"
)

type stubStore struct {
	keys    map[string]bool
	lastTTL time.Duration
}

func newStubStore() *stubStore {
	return &stubStore{keys: map[string]bool{}}
}

func (s *stubStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.lastTTL = ttl
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *stubStore) IdempotencyKey(scope, id string) string {
	return "gk:idempotency:" + scope + ":" + id
}

func (s *stubStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.keys, key)
	}
	return nil
}

func TestGuardMarksFirstDelivery(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	guard, err := NewIdempotencyGuard(store, time.Hour, "razorpay")
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}

	seen, err := guard.CheckAndMark(context.Background(), "evt_001")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if seen {
		t.Fatal("first delivery must not be marked seen")
	}

	seen, err = guard.CheckAndMark(context.Background(), "evt_001")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !seen {
		t.Fatal("second delivery must be marked seen")
	}
	if store.lastTTL != time.Hour {
		t.Fatalf("expected ttl to pass through, got %s", store.lastTTL)
	}
}

func TestGuardDeleteReleasesMark(t *testing.T) {
	t.Parallel()

	guard, err := NewIdempotencyGuard(newStubStore(), time.Hour, "razorpay")
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}

	ctx := context.Background()
	if _, err := guard.CheckAndMark(ctx, "evt_002"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := guard.Delete(ctx, "evt_002"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	seen, err := guard.CheckAndMark(ctx, "evt_002")
	if err != nil {
		t.Fatalf("remark: %v", err)
	}
	if seen {
		t.Fatal("released mark must allow reprocessing")
	}
}

func TestGuardRequiresEventID(t *testing.T) {
	t.Parallel()

	guard, err := NewIdempotencyGuard(newStubStore(), time.Hour, "razorpay")
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	if _, err := guard.CheckAndMark(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty event id")
	}
}

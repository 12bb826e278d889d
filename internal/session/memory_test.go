package session

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryStore_GetPut(t *testing.T) {
	store := NewMemoryStore[string](0)
	ctx := context.Background()

	if err := store.Put(ctx, "b1", "battle"); err != nil {
		t.Fatalf("Unexpected error on Put: %v", err)
	}
	got, ok, err := store.Get(ctx, "b1")
	if err != nil {
		t.Fatalf("Unexpected error on Get: %v", err)
	}
	if !ok || got != "battle" {
		t.Errorf("Expected 'battle', got %q (ok=%v)", got, ok)
	}

	_, ok, err = store.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Unexpected error on Get: %v", err)
	}
	if ok {
		t.Error("Expected value to not exist")
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore[int](0)
	ctx := context.Background()

	_ = store.Put(ctx, "a", 1)
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Unexpected error on Delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "a"); ok {
		t.Error("Expected value to be gone after Delete")
	}
	if err := store.Delete(ctx, "never-there"); err != nil {
		t.Errorf("Delete of unknown id: %v", err)
	}
}

func TestMemoryStore_Cap(t *testing.T) {
	store := NewMemoryStore[int](2)
	ctx := context.Background()

	_ = store.Put(ctx, "a", 1)
	_ = store.Put(ctx, "b", 2)
	if err := store.Put(ctx, "c", 3); !errors.Is(err, ErrFull) {
		t.Fatalf("Expected ErrFull, got %v", err)
	}
	if err := store.Put(ctx, "a", 10); err != nil {
		t.Fatalf("Overwrite at cap failed: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", store.Len())
	}
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	store := NewMemoryStore[int](0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Put(ctx, "a", 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Put: expected context.Canceled, got %v", err)
	}
	if _, _, err := store.Get(ctx, "a"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get: expected context.Canceled, got %v", err)
	}
}

func TestMemoryStore_NewID(t *testing.T) {
	store := NewMemoryStore[string](0)
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := store.NewID()
		if ids[id] {
			t.Errorf("Duplicate ID generated: %s", id)
		}
		ids[id] = true
		if len(id) != 32 {
			t.Errorf("Expected ID length 32, got %d", len(id))
		}
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore[int](0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			if err := store.Put(ctx, "key", v); err != nil {
				t.Errorf("Error in concurrent Put: %v", err)
			}
			_, _, _ = store.Get(ctx, "key")
		}(i)
	}
	wg.Wait()

	if _, ok, _ := store.Get(ctx, "key"); !ok {
		t.Error("Expected value to exist after concurrent writes")
	}
}

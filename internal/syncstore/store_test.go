package syncstore

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestStoreEmpty(t *testing.T) {
	if _, err := New().Get(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestStoreLastWriteWins(t *testing.T) {
	store := New()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	first, err := store.Put([]byte(`{"v":1}`))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	second, err := store.Put([]byte(`{"v":2}`))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if first.Revision == second.Revision {
		t.Fatalf("expected distinct revisions")
	}

	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Data) != `{"v":2}` || got.Revision != second.Revision {
		t.Fatalf("expected second write, got %s (%s)", got.Data, got.Revision)
	}
	if !got.UpdatedAt.Equal(fixed) {
		t.Fatalf("unexpected timestamp %v", got.UpdatedAt)
	}
}

func TestStoreRejectsInvalidJSON(t *testing.T) {
	store := New()
	if _, err := store.Put([]byte(`{"v":`)); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
	if _, err := store.Get(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("invalid write must not replace the slot, got %v", err)
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	store := New()
	if _, err := store.Put([]byte(`[1,2]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	snap, _ := store.Get()
	snap.Data[1] = '9'

	again, _ := store.Get()
	if string(again.Data) != `[1,2]` {
		t.Fatalf("stored value mutated through a snapshot: %s", again.Data)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.Put([]byte(`{"ok":true}`))
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Get()
		}()
	}
	wg.Wait()

	if snap, err := store.Get(); err != nil || string(snap.Data) != `{"ok":true}` {
		t.Fatalf("unexpected final state %s, %v", snap.Data, err)
	}
}

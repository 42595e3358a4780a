package state

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/lostfound/internal/lostfound"
)

type listerFunc func(ctx context.Context) ([]lostfound.Item, error)

func (f listerFunc) ListItems(ctx context.Context) ([]lostfound.Item, error) { return f(ctx) }

func static(items []lostfound.Item, err error) Lister {
	return listerFunc(func(context.Context) ([]lostfound.Item, error) { return items, err })
}

func TestStore_RefreshAndSnapshotClone(t *testing.T) {
	var s Store
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	if err := s.Refresh(context.Background(), static([]lostfound.Item{{ID: "1"}, {ID: "2"}}, nil)); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	snap := s.Snapshot()
	if !snap.Loaded || snap.Refreshing {
		t.Fatalf("snapshot flags = loaded %v refreshing %v", snap.Loaded, snap.Refreshing)
	}
	if len(snap.Items) != 2 || snap.Items[0].ID != "1" {
		t.Fatalf("snapshot items = %#v, want 2 items", snap.Items)
	}
	if !snap.LastUpdated.Equal(fixed) {
		t.Fatalf("LastUpdated = %v, want %v", snap.LastUpdated, fixed)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Items[0].ID = "999"
	if s.Snapshot().Items[0].ID != "1" {
		t.Fatalf("Snapshot should clone items")
	}
}

func TestStore_RefreshErrorKeepsPreviousData(t *testing.T) {
	var s Store
	_ = s.Refresh(context.Background(), static([]lostfound.Item{{ID: "1"}}, nil))

	origErr := errors.New("boom")
	if err := s.Refresh(context.Background(), static(nil, origErr)); !errors.Is(err, origErr) {
		t.Fatalf("Refresh err = %v, want boom", err)
	}

	snap := s.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "1" {
		t.Fatalf("items changed on error: %#v", snap.Items)
	}
	if !snap.Loaded {
		t.Fatalf("Loaded reset on error")
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store
	fail := static(nil, errors.New("down"))

	for i := 1; i <= 3; i++ {
		_ = s.Refresh(context.Background(), fail)
		snap := s.Snapshot()
		if snap.ConsecutiveFailures != i {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, i)
		}
		if snap.IsOffline() != (i >= 2) {
			t.Fatalf("IsOffline() = %v after %d failures", snap.IsOffline(), i)
		}
	}

	_ = s.Refresh(context.Background(), static(nil, nil))
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() || snap.LastError != nil {
		t.Fatalf("success did not reset failures: %+v", snap)
	}
}

func TestStore_NewerRefreshSupersedesOlder(t *testing.T) {
	var s Store

	started := make(chan struct{})
	slow := listerFunc(func(ctx context.Context) ([]lostfound.Item, error) {
		close(started)
		<-ctx.Done()
		return []lostfound.Item{{ID: "stale"}}, ctx.Err()
	})

	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background(), slow) }()
	<-started

	if err := s.Refresh(context.Background(), static([]lostfound.Item{{ID: "fresh"}}, nil)); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, ErrSuperseded) {
			t.Fatalf("first Refresh err = %v, want ErrSuperseded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first refresh was not cancelled")
	}

	snap := s.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "fresh" {
		t.Fatalf("items = %#v, want fresh result", snap.Items)
	}
	if snap.LastError != nil || snap.ConsecutiveFailures != 0 {
		t.Fatalf("superseded refresh recorded an error: %+v", snap)
	}
	if s.Generation() != 2 {
		t.Fatalf("Generation = %d, want 2", s.Generation())
	}
}

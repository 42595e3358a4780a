package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/five82/lostfound/internal/kv"
	"github.com/five82/lostfound/internal/lostfound"
)

type failingKV struct {
	getErr error
	setErr error
	values map[string]string
}

func (f *failingKV) Get(_ context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *failingKV) Set(_ context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	return nil
}

func (f *failingKV) Close() error { return nil }

func TestToggle_Involutive(t *testing.T) {
	sets := []Set{nil, {}, NewSet("1"), NewSet("1", "2", "42")}
	for _, s := range sets {
		for _, id := range []lostfound.ID{"1", "42", "new"} {
			before := members(s)
			got := Toggle(id, Toggle(id, s))
			if !reflect.DeepEqual(members(got), before) {
				t.Fatalf("Toggle(%s, Toggle(%s, %v)) = %v", id, id, before, members(got))
			}
			if !reflect.DeepEqual(members(s), before) {
				t.Fatalf("Toggle mutated its input")
			}
		}
	}
}

// members normalises nil and empty sets for comparison.
func members(s Set) []string {
	ids := s.IDs()
	if ids == nil {
		return []string{}
	}
	return ids
}

func TestIsFavorite_NumericAndStringIDsMatch(t *testing.T) {
	var decoded []lostfound.ID
	if err := json.Unmarshal([]byte(`[42]`), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	set := NewSet(decoded...)
	if !IsFavorite("42", set) {
		t.Fatalf("numeric 42 should match string id \"42\"")
	}
	if IsFavorite("4", set) {
		t.Fatalf("4 should not be a favorite")
	}
}

func TestStore_ToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(&failingKV{})

	fav, err := s.IsFavorite(ctx, "7")
	if err != nil || fav {
		t.Fatalf("IsFavorite on empty store = %v, %v; want false", fav, err)
	}

	fav, err = s.Toggle(ctx, "7")
	if err != nil || !fav {
		t.Fatalf("Toggle = %v, %v; want true", fav, err)
	}
	if fav, _ := s.IsFavorite(ctx, "7"); !fav {
		t.Fatalf("IsFavorite after toggle = false")
	}

	fav, err = s.Toggle(ctx, "7")
	if err != nil || fav {
		t.Fatalf("second Toggle = %v, %v; want false", fav, err)
	}
	set, err := s.Load(ctx)
	if err != nil || len(set) != 0 {
		t.Fatalf("Load = %v, %v; want empty", set, err)
	}
}

func TestStore_LoadsLegacyNumericEntries(t *testing.T) {
	backing := &failingKV{values: map[string]string{Key: `[42, "43"]`}}
	s := NewStore(backing)
	for _, id := range []lostfound.ID{"42", "43"} {
		if fav, err := s.IsFavorite(context.Background(), id); err != nil || !fav {
			t.Fatalf("IsFavorite(%s) = %v, %v; want true", id, fav, err)
		}
	}
	if _, err := s.Toggle(context.Background(), "44"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if got := backing.values[Key]; got != `["42","43","44"]` {
		t.Fatalf("persisted = %s, want sorted string ids", got)
	}
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	var storageErr *StorageError
	_, err := NewStore(&failingKV{getErr: boom}).Toggle(ctx, "1")
	if !errors.As(err, &storageErr) || storageErr.Op != "read" || !errors.Is(err, boom) {
		t.Fatalf("Toggle read error = %v", err)
	}

	backing := &failingKV{values: map[string]string{Key: `["1"]`}, setErr: boom}
	_, err = NewStore(backing).Toggle(ctx, "2")
	if !errors.As(err, &storageErr) || storageErr.Op != "write" {
		t.Fatalf("Toggle write error = %v", err)
	}
	if backing.values[Key] != `["1"]` {
		t.Fatalf("failed toggle changed persisted value: %s", backing.values[Key])
	}

	_, err = NewStore(&failingKV{values: map[string]string{Key: "{"}}).Load(ctx)
	if !errors.As(err, &storageErr) || storageErr.Op != "decode" {
		t.Fatalf("Load decode error = %v", err)
	}
}

func TestStore_WithSQLiteBackend(t *testing.T) {
	backing, err := kv.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = backing.Close() })

	s := NewStore(backing)
	if fav, err := s.Toggle(context.Background(), "abc"); err != nil || !fav {
		t.Fatalf("Toggle = %v, %v", fav, err)
	}
	raw, ok, err := backing.Get(context.Background(), Key)
	if err != nil || !ok || raw != `["abc"]` {
		t.Fatalf("raw = %q ok=%v err=%v", raw, ok, err)
	}
}

// slowKV widens the gap between a read and the write that follows it.
type slowKV struct {
	mu     sync.Mutex
	values map[string]string
}

func (s *slowKV) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	v, ok := s.values[key]
	s.mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	return v, ok, nil
}

func (s *slowKV) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value
	return nil
}

func (s *slowKV) Close() error { return nil }

func TestStore_ConcurrentTogglesCancelOut(t *testing.T) {
	backing := &slowKV{}
	store := NewStore(backing)
	ctx := context.Background()

	results := make(chan bool, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fav, err := store.Toggle(ctx, "2")
			if err != nil {
				t.Errorf("Toggle: %v", err)
			}
			results <- fav
		}()
	}
	wg.Wait()
	close(results)

	var marked int
	for fav := range results {
		if fav {
			marked++
		}
	}
	if marked != 1 {
		t.Fatalf("toggles reported favorite %d times, want exactly 1", marked)
	}
	if got := backing.values[Key]; got != "[]" {
		t.Fatalf("persisted = %q, want []", got)
	}
}

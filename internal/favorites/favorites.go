// Package favorites tracks the item ids a user has starred on this device.
// Favorites are never sent to the backend.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/five82/lostfound/internal/kv"
	"github.com/five82/lostfound/internal/lostfound"
)

// Key is the store key holding the serialized set.
const Key = "favorites"

// Set holds favorite ids in canonical string form.
type Set map[string]struct{}

// NewSet builds a set from ids.
func NewSet(ids ...lostfound.ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id.String()] = struct{}{}
	}
	return s
}

// IDs returns the members sorted.
func (s Set) IDs() []string {
	return slices.Sorted(maps.Keys(s))
}

// IsFavorite reports whether id is in set.
func IsFavorite(id lostfound.ID, set Set) bool {
	_, ok := set[id.String()]
	return ok
}

// Toggle returns a copy of set with id's membership flipped. set is not
// modified, so Toggle(id, Toggle(id, s)) equals s.
func Toggle(id lostfound.ID, set Set) Set {
	next := maps.Clone(set)
	if next == nil {
		next = Set{}
	}
	key := id.String()
	if _, ok := next[key]; ok {
		delete(next, key)
	} else {
		next[key] = struct{}{}
	}
	return next
}

// StorageError reports a failed read or write of the persisted set.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("favorites %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store persists the set under Key in a kv.Store. Every mutation writes the
// whole set immediately. Calls are serialized: UI commands run on their own
// goroutines, so two toggles may be in flight at once.
type Store struct {
	mu sync.Mutex
	kv kv.Store
}

// NewStore wraps backing.
func NewStore(backing kv.Store) *Store {
	return &Store{kv: backing}
}

// Load reads the persisted set. An absent key is an empty set. Entries
// stored as numbers are accepted.
func (s *Store) Load(ctx context.Context) (Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (Set, error) {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return nil, &StorageError{Op: "read", Err: err}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return Set{}, nil
	}
	var ids []lostfound.ID
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, &StorageError{Op: "decode", Err: err}
	}
	return NewSet(ids...), nil
}

// Save replaces the persisted set.
func (s *Store) Save(ctx context.Context, set Set) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, set)
}

func (s *Store) save(ctx context.Context, set Set) error {
	ids := set.IDs()
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return &StorageError{Op: "encode", Err: err}
	}
	if err := s.kv.Set(ctx, Key, string(data)); err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}

// IsFavorite reads the persisted set and reports id's membership.
func (s *Store) IsFavorite(ctx context.Context, id lostfound.ID) (bool, error) {
	set, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	return IsFavorite(id, set), nil
}

// Toggle flips id's membership with a read-modify-write and returns the new
// membership. On error nothing was persisted.
func (s *Store) Toggle(ctx context.Context, id lostfound.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	next := Toggle(id, set)
	if err := s.save(ctx, next); err != nil {
		return false, err
	}
	return IsFavorite(id, next), nil
}

package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/five82/lostfound/internal/lostfound"
)

// ErrSuperseded is returned by Refresh when a newer refresh started before
// this one finished. The stale result is discarded.
var ErrSuperseded = errors.New("refresh superseded")

// Lister fetches the full item list.
type Lister interface {
	ListItems(ctx context.Context) ([]lostfound.Item, error)
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Items               []lostfound.Item
	Loaded              bool // at least one refresh succeeded
	Refreshing          bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has failed more than once in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates refreshes of the item list.
type Store struct {
	mu         sync.RWMutex
	snapshot   Snapshot
	generation uint64
	cancel     context.CancelFunc

	now func() time.Time
}

// Refresh fetches the list through l and replaces the stored items. Starting
// a refresh cancels the one in flight; the older call then returns
// ErrSuperseded without touching the snapshot. On failure the previous items
// are kept and the error is recorded.
func (s *Store) Refresh(ctx context.Context, l Lister) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	s.cancel = cancel
	s.snapshot.Refreshing = true
	s.mu.Unlock()

	items, err := l.ListItems(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrSuperseded
	}
	s.cancel = nil
	s.snapshot.Refreshing = false
	s.snapshot.LastUpdated = s.clock()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return err
	}
	s.snapshot.Items = cloneItems(items)
	s.snapshot.Loaded = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	return nil
}

// Generation returns the number of refreshes started so far.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Items = cloneItems(s.snapshot.Items)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func cloneItems(items []lostfound.Item) []lostfound.Item {
	if len(items) == 0 {
		return nil
	}
	dup := make([]lostfound.Item, len(items))
	copy(dup, items)
	return dup
}

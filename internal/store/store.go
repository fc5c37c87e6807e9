// Package store holds the currently loaded ephemeris dataset.
package store

import (
	"sync/atomic"

	"github.com/dhannywi/surfwax-iss/internal/domain"
)

// Store is the in-memory home of the active dataset. Datasets are
// immutable once stored; Replace and Clear swap the whole pointer, so a
// reader always observes one complete dataset and never a partial
// update. All methods are safe for concurrent use.
type Store struct {
	dataset atomic.Pointer[domain.Dataset]
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Replace installs a new dataset, atomically displacing any previous one.
func (s *Store) Replace(ds *domain.Dataset) {
	s.dataset.Store(ds)
}

// Clear removes the active dataset. Clearing an already-empty store is
// ErrNoData, so callers can tell a real deletion from a no-op.
func (s *Store) Clear() error {
	if old := s.dataset.Swap(nil); old == nil {
		return domain.ErrNoData
	}
	return nil
}

// Loaded reports whether a dataset is currently active.
func (s *Store) Loaded() bool {
	return s.dataset.Load() != nil
}

// Snapshot returns the active dataset, or ErrNoData when the store is
// empty. The returned dataset must not be mutated.
func (s *Store) Snapshot() (*domain.Dataset, error) {
	ds := s.dataset.Load()
	if ds == nil {
		return nil, domain.ErrNoData
	}
	return ds, nil
}

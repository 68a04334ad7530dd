// Package projectstore holds the current stop set and matrix pair for
// each project. Matrix acquisition itself is an external collaborator
// (§1 "deliberately out of scope"); this package is only the shared,
// single-writer read surface the optimizer and materializer read from
// at the start of an operation (§5).
package projectstore

import (
	"sync"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/domain"
)

// Snapshot is a project's current stops and matrix, read together so
// a caller never observes one updated without the other.
type Snapshot struct {
	Stops  *domain.StopSet
	Matrix *domain.MatrixPair
}

// Store holds one Snapshot per project id behind a single read/write
// lock; Set replaces a project's snapshot wholesale, matching the
// "stop-set change invalidates the matrix pair" rule in §3 rather than
// allowing partial mutation.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

func New() *Store {
	return &Store{snapshots: make(map[string]Snapshot)}
}

// Set installs projectID's current snapshot, replacing any prior one.
func (s *Store) Set(projectID string, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[projectID] = snap
}

// Get returns projectID's current snapshot, or false if none has been
// set yet.
func (s *Store) Get(projectID string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[projectID]
	return snap, ok
}

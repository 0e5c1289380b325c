// Package review holds the pure core of change review: the per-hunk
// decision store and the patch applier that materializes file content
// from those decisions.
package review

import (
	"fmt"

	"revu/internal/domain"
)

// Decisions maps hunk IDs to their review status. Treated as immutable:
// every store operation returns a fresh map.
type Decisions map[string]domain.HunkStatus

// clone copies the map so callers can hold onto earlier snapshots.
func (d Decisions) clone() Decisions {
	out := make(Decisions, len(d))
	for id, status := range d {
		out[id] = status
	}
	return out
}

// Pending reports whether any decision is still pending.
func (d Decisions) Pending() bool {
	for _, status := range d {
		if status == domain.HunkPending {
			return true
		}
	}
	return false
}

// Store tracks review decisions for the hunks of exactly one FileDiff.
// It is discarded and rebuilt when a different diff is opened; operations
// can never touch hunks belonging to another file. Persistence is the
// caller's responsibility.
type Store struct {
	diff      *domain.FileDiff
	decisions Decisions
}

// NewStore creates a store with every hunk of the diff pending.
func NewStore(diff *domain.FileDiff) *Store {
	decisions := make(Decisions, len(diff.Hunks))
	for _, h := range diff.Hunks {
		decisions[h.ID] = domain.HunkPending
	}
	return &Store{diff: diff, decisions: decisions}
}

// Restore overwrites pending decisions with previously persisted ones.
// Decisions for hunks that no longer exist are ignored; the diff has
// drifted and their regions are unaddressable.
func (s *Store) Restore(saved map[string]domain.HunkStatus) {
	next := s.decisions.clone()
	for id, status := range saved {
		if _, ok := next[id]; ok {
			next[id] = status
		}
	}
	s.decisions = next
}

// Diff returns the FileDiff under review.
func (s *Store) Diff() *domain.FileDiff {
	return s.diff
}

// Decisions returns the current decision map snapshot.
func (s *Store) Decisions() Decisions {
	return s.decisions.clone()
}

// Accept marks one hunk accepted.
func (s *Store) Accept(id string) (Decisions, error) {
	return s.set(id, domain.HunkAccepted)
}

// Reject marks one hunk rejected.
func (s *Store) Reject(id string) (Decisions, error) {
	return s.set(id, domain.HunkRejected)
}

// Reset returns one hunk to pending.
func (s *Store) Reset(id string) (Decisions, error) {
	return s.set(id, domain.HunkPending)
}

func (s *Store) set(id string, status domain.HunkStatus) (Decisions, error) {
	if _, ok := s.decisions[id]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownHunk, id)
	}
	next := s.decisions.clone()
	next[id] = status
	s.decisions = next
	return next, nil
}

// AcceptPending accepts every hunk that is still pending. Hunks the user
// already rejected by hand are left alone.
func (s *Store) AcceptPending() Decisions {
	return s.bulk(domain.HunkAccepted, false)
}

// RejectPending rejects every hunk that is still pending, keeping manual
// accepts.
func (s *Store) RejectPending() Decisions {
	return s.bulk(domain.HunkRejected, false)
}

// AcceptAll forces every hunk to accepted, including ones previously
// rejected.
func (s *Store) AcceptAll() Decisions {
	return s.bulk(domain.HunkAccepted, true)
}

// RejectAll forces every hunk to rejected, including ones previously
// accepted.
func (s *Store) RejectAll() Decisions {
	return s.bulk(domain.HunkRejected, true)
}

func (s *Store) bulk(target domain.HunkStatus, overwrite bool) Decisions {
	next := s.decisions.clone()
	for id, status := range next {
		if overwrite || status == domain.HunkPending || status == target {
			next[id] = target
		}
	}
	s.decisions = next
	return next
}

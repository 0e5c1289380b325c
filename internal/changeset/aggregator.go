// Package changeset composes the parsers into the working model the
// shell consumes: the current change list plus a cache of fetched diffs
// with scoped invalidation.
package changeset

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"revu/internal/domain"
	"revu/internal/logging"
	"revu/internal/porcelain"
	"revu/internal/ports"
	"revu/internal/unidiff"
)

const defaultCacheSize = 256

// diffKey identifies one cached FileDiff: a path in one comparison.
type diffKey struct {
	path   string
	staged bool
}

func (k diffKey) String() string {
	return fmt.Sprintf("%s|staged=%t", k.path, k.staged)
}

// Aggregator owns the latest FileChange list and the (path, staged) diff
// cache. It is the only component allowed to invalidate that cache. One
// aggregator serves one repository; construct another for another root.
type Aggregator struct {
	status ports.StatusReader
	diffs  ports.DiffReader

	mu      sync.RWMutex
	changes []domain.FileChange
	cache   *lru.Cache[diffKey, *domain.FileDiff]
	group   singleflight.Group
}

// New creates an aggregator reading status and diff text through the
// given ports.
func New(status ports.StatusReader, diffs ports.DiffReader) (*Aggregator, error) {
	cache, err := lru.New[diffKey, *domain.FileDiff](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating diff cache: %w", err)
	}
	return &Aggregator{
		status: status,
		diffs:  diffs,
		cache:  cache,
	}, nil
}

// Changes returns a copy of the current change list.
func (a *Aggregator) Changes() []domain.FileChange {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]domain.FileChange, len(a.changes))
	copy(out, a.changes)
	return out
}

// Refresh re-reads the status and replaces the change list atomically.
// Cached diffs survive for files whose status entry is unchanged; only
// keys whose entry changed, appeared, or disappeared are invalidated, so
// a file under active review keeps its fetched diff.
func (a *Aggregator) Refresh(ctx context.Context) ([]domain.FileChange, error) {
	raw, err := a.status.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("refreshing status: %w", err)
	}
	fresh := porcelain.Parse(raw)

	a.mu.Lock()
	defer a.mu.Unlock()

	previous := indexByKey(a.changes)
	next := indexByKey(fresh)

	for key, status := range previous {
		if newStatus, ok := next[key]; !ok || newStatus != status {
			a.cache.Remove(key)
		}
	}
	for key := range next {
		if _, ok := previous[key]; !ok {
			a.cache.Remove(key)
		}
	}

	a.changes = fresh

	logging.Logger.Debug("Change list refreshed", "files", len(fresh))

	out := make([]domain.FileChange, len(fresh))
	copy(out, fresh)
	return out, nil
}

// RequestDiff returns the FileDiff for one path in one comparison,
// fetching and parsing lazily. Concurrent requests for the same key share
// a single in-flight fetch.
func (a *Aggregator) RequestDiff(ctx context.Context, path string, staged bool) (*domain.FileDiff, error) {
	key := diffKey{path: path, staged: staged}

	a.mu.RLock()
	cached, ok := a.cache.Get(key)
	a.mu.RUnlock()
	if ok {
		return cached, nil
	}

	result, err, _ := a.group.Do(key.String(), func() (any, error) {
		raw, err := a.diffs.Diff(ctx, path, staged)
		if err != nil {
			return nil, fmt.Errorf("fetching diff for %s: %w", path, err)
		}

		fd := selectFileDiff(unidiff.Parse(raw), path)

		a.mu.Lock()
		a.cache.Add(key, fd)
		a.mu.Unlock()

		return fd, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.FileDiff), nil
}

// Invalidate drops the cached diff for one key, forcing the next request
// to re-fetch. Used after a materialization writes new content.
func (a *Aggregator) Invalidate(path string, staged bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache.Remove(diffKey{path: path, staged: staged})
}

// selectFileDiff picks the segment for the requested path. A diff with no
// segment for the path yields an empty FileDiff so callers can render
// "no changes".
func selectFileDiff(diffs []*domain.FileDiff, path string) *domain.FileDiff {
	for _, fd := range diffs {
		if fd.FilePath == path {
			return fd
		}
	}
	if len(diffs) == 1 && path == "" {
		return diffs[0]
	}
	return &domain.FileDiff{FilePath: path}
}

func indexByKey(changes []domain.FileChange) map[diffKey]domain.FileStatus {
	out := make(map[diffKey]domain.FileStatus, len(changes))
	for _, c := range changes {
		out[diffKey{path: c.Path, staged: c.Staged}] = c.Status
	}
	return out
}

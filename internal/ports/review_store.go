package ports

import (
	"context"

	"revu/internal/domain"
)

// ReviewStore persists hunk decisions so an interrupted review can
// resume. Keyed by repository root, file path and staged flag; values are
// decision-by-hunk-ID maps.
type ReviewStore interface {
	SaveDecisions(ctx context.Context, repoRoot, path string, staged bool, decisions map[string]domain.HunkStatus) error
	LoadDecisions(ctx context.Context, repoRoot, path string, staged bool) (map[string]domain.HunkStatus, error)
	ClearDecisions(ctx context.Context, repoRoot, path string, staged bool) error
}

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revu/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteReviewStore {
	t.Helper()
	store, err := NewSQLiteReviewStore(filepath.Join(t.TempDir(), "revu.db"))
	require.NoError(t, err)
	return store
}

func TestSaveAndLoadDecisions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	decisions := map[string]domain.HunkStatus{
		"src/a.ts#0@-2,2+2,3":  domain.HunkAccepted,
		"src/a.ts#1@-9,1+10,1": domain.HunkRejected,
	}
	require.NoError(t, store.SaveDecisions(ctx, "/repo", "src/a.ts", false, decisions))

	loaded, err := store.LoadDecisions(ctx, "/repo", "src/a.ts", false)
	require.NoError(t, err)
	assert.Equal(t, decisions, loaded)
}

func TestSaveDecisions_UpsertsLaterState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	id := "src/a.ts#0@-2,2+2,3"

	require.NoError(t, store.SaveDecisions(ctx, "/repo", "src/a.ts", false,
		map[string]domain.HunkStatus{id: domain.HunkAccepted}))
	require.NoError(t, store.SaveDecisions(ctx, "/repo", "src/a.ts", false,
		map[string]domain.HunkStatus{id: domain.HunkRejected}))

	loaded, err := store.LoadDecisions(ctx, "/repo", "src/a.ts", false)
	require.NoError(t, err)
	assert.Equal(t, domain.HunkRejected, loaded[id])
}

func TestLoadDecisions_EmptyWhenNothingSaved(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.LoadDecisions(context.Background(), "/repo", "src/never.ts", true)

	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestDecisions_KeyedByStagedFlag(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	id := "src/a.ts#0@-2,2+2,3"

	require.NoError(t, store.SaveDecisions(ctx, "/repo", "src/a.ts", true,
		map[string]domain.HunkStatus{id: domain.HunkAccepted}))

	loaded, err := store.LoadDecisions(ctx, "/repo", "src/a.ts", false)
	require.NoError(t, err)
	assert.Empty(t, loaded, "staged and unstaged reviews are independent")
}

func TestClearDecisions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDecisions(ctx, "/repo", "src/a.ts", false,
		map[string]domain.HunkStatus{"id": domain.HunkAccepted}))
	require.NoError(t, store.ClearDecisions(ctx, "/repo", "src/a.ts", false))

	loaded, err := store.LoadDecisions(ctx, "/repo", "src/a.ts", false)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

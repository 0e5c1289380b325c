package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()

	var calls atomic.Int64
	w, err := New(root, func() { calls.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "f.txt"), []byte{byte('a' + i)}, 0644))
	}

	assert.Eventually(t, func() bool {
		return calls.Load() >= 1
	}, 2*time.Second, 20*time.Millisecond)

	time.Sleep(2 * defaultDebounce)
	assert.LessOrEqual(t, calls.Load(), int64(2), "a write burst must coalesce")
}

func TestWatcher_IgnoresGitDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))

	var calls atomic.Int64
	w, err := New(root, func() { calls.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "index.lock"), []byte("x"), 0644))

	time.Sleep(3 * defaultDebounce)
	assert.Zero(t, calls.Load(), "events under .git must not trigger refresh")
}

func TestWatcher_CloseStopsCallbacks(t *testing.T) {
	root := t.TempDir()

	var calls atomic.Int64
	w, err := New(root, func() { calls.Add(1) })
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "f.txt"), []byte("x"), 0644))
	require.NoError(t, w.Close())

	time.Sleep(3 * defaultDebounce)
	assert.Zero(t, calls.Load())
}

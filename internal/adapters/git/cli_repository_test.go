package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revu/internal/domain"
)

// fakeGit writes a shell script standing in for the git binary, so the
// adapter's command plumbing is exercised without touching a real
// repository.
func fakeGit(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-git")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	return path
}

func TestRunner_SuccessReturnsStdout(t *testing.T) {
	bin := fakeGit(t, `echo "hello"`)
	repo := NewCLIRepository(t.TempDir(), bin)

	out, err := repo.Status(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestRunner_FailurePrefersStderr(t *testing.T) {
	bin := fakeGit(t, `echo "to stdout"; echo "fatal: broken" >&2; exit 3`)
	repo := NewCLIRepository(t.TempDir(), bin)

	_, err := repo.Status(context.Background())

	require.Error(t, err)
	var cmdErr *domain.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 3, cmdErr.ExitCode)
	assert.Equal(t, "fatal: broken", cmdErr.Stderr)
	assert.Equal(t, "status", cmdErr.Op)
}

func TestRunner_FailureFallsBackToStdout(t *testing.T) {
	bin := fakeGit(t, `echo "only stdout"; exit 1`)
	repo := NewCLIRepository(t.TempDir(), bin)

	_, err := repo.Status(context.Background())

	var cmdErr *domain.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "only stdout", cmdErr.Stderr)
}

func TestProbe_NotARepository(t *testing.T) {
	bin := fakeGit(t, `echo "fatal: not a git repository" >&2; exit 128`)
	repo := NewCLIRepository(t.TempDir(), bin)

	_, err := repo.Probe(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotARepository)
}

func TestProbe_ReturnsRoot(t *testing.T) {
	bin := fakeGit(t, `echo "/work/repo"`)
	repo := NewCLIRepository(t.TempDir(), bin)

	root, err := repo.Probe(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/work/repo", root)
}

func TestMutate_ConcurrentWriteRejected(t *testing.T) {
	bin := fakeGit(t, `sleep 0.5`)
	repo := NewCLIRepository(t.TempDir(), bin)

	started := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		close(started)
		assert.NoError(t, repo.Push(context.Background()))
	}()

	<-started
	time.Sleep(50 * time.Millisecond) // let the push take the write gate

	err := repo.Commit(context.Background(), "msg")
	assert.ErrorIs(t, err, domain.ErrOperationInProgress)

	wg.Wait()
}

func TestMutate_SequentialWritesAllowed(t *testing.T) {
	bin := fakeGit(t, `exit 0`)
	repo := NewCLIRepository(t.TempDir(), bin)

	require.NoError(t, repo.Commit(context.Background(), "first"))
	require.NoError(t, repo.Push(context.Background()))
	require.NoError(t, repo.Pull(context.Background()))
}

func TestMutate_FailedPushIsRetryable(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "attempted")
	bin := fakeGit(t, `if [ -f `+marker+` ]; then exit 0; else touch `+marker+`; echo "remote hung up" >&2; exit 1; fi`)
	repo := NewCLIRepository(t.TempDir(), bin)

	err := repo.Push(context.Background())
	require.Error(t, err)
	var cmdErr *domain.CommandError
	require.True(t, errors.As(err, &cmdErr))

	assert.NoError(t, repo.Push(context.Background()), "re-issuing a failed push must succeed cleanly")
}

func TestReadsRunWhileNoWriteInFlight(t *testing.T) {
	bin := fakeGit(t, `echo ok`)
	repo := NewCLIRepository(t.TempDir(), bin)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Status(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestDiff_CleanTrackedFileYieldsNoDiff(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	bin := fakeGit(t, `echo "$@" >> `+argsFile+`; exit 0`)
	repo := NewCLIRepository(t.TempDir(), bin)

	out, err := repo.Diff(context.Background(), "clean.txt", false)

	require.NoError(t, err)
	assert.Equal(t, "", out, "a tracked file with no changes must not produce a diff")
	recorded, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Contains(t, string(recorded), "ls-files --error-unmatch -- clean.txt")
	assert.NotContains(t, string(recorded), "--no-index")
}

func TestDiff_UntrackedFallsBackToNoIndex(t *testing.T) {
	script := `case "$*" in
*ls-files*) exit 1 ;;
*--no-index*) printf 'diff --git a/n.txt b/n.txt\nnew file mode 100644\n--- /dev/null\n+++ b/n.txt\n@@ -0,0 +1 @@\n+hi\n'; exit 1 ;;
*) exit 0 ;;
esac`
	bin := fakeGit(t, script)
	repo := NewCLIRepository(t.TempDir(), bin)

	out, err := repo.Diff(context.Background(), "n.txt", false)

	require.NoError(t, err)
	assert.Contains(t, out, "new file mode")
	assert.Contains(t, out, "+hi")
}

func TestDiff_ArgsIncludeCachedForStaged(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	bin := fakeGit(t, `echo "$@" >> `+argsFile+`; echo "x"`)
	repo := NewCLIRepository(t.TempDir(), bin)

	_, err := repo.Diff(context.Background(), "src/a.ts", true)
	require.NoError(t, err)

	recorded, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Contains(t, string(recorded), "diff --cached -- src/a.ts")
}

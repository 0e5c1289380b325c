package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"revu/internal/domain"
	"revu/internal/ports"
	"revu/internal/review"
)

type mockGitRepository struct {
	mock.Mock
}

func (m *mockGitRepository) Probe(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) Status(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) Diff(ctx context.Context, path string, staged bool) (string, error) {
	args := m.Called(ctx, path, staged)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) Stage(ctx context.Context, paths ...string) error {
	return m.Called(ctx, paths).Error(0)
}

func (m *mockGitRepository) Unstage(ctx context.Context, paths ...string) error {
	return m.Called(ctx, paths).Error(0)
}

func (m *mockGitRepository) Commit(ctx context.Context, message string) error {
	return m.Called(ctx, message).Error(0)
}

func (m *mockGitRepository) Push(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockGitRepository) Pull(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockGitRepository) FetchStats(ctx context.Context) (*domain.RepoStats, error) {
	args := m.Called(ctx)
	if stats := args.Get(0); stats != nil {
		return stats.(*domain.RepoStats), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockContentStore struct {
	mock.Mock
}

func (m *mockContentStore) Read(ctx context.Context, path string) ([]string, bool, error) {
	args := m.Called(ctx, path)
	var lines []string
	if v := args.Get(0); v != nil {
		lines = v.([]string)
	}
	return lines, args.Bool(1), args.Error(2)
}

func (m *mockContentStore) Write(ctx context.Context, path string, lines []string) error {
	return m.Called(ctx, path, lines).Error(0)
}

func (m *mockContentStore) Remove(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, diff string) (string, error) {
	args := m.Called(ctx, diff)
	return args.String(0), args.Error(1)
}

const aDiff = `diff --git a/src/a.ts b/src/a.ts
index 1111111..2222222 100644
--- a/src/a.ts
+++ b/src/a.ts
@@ -2,2 +2,3 @@
-foo
+bar
+baz
 y
`

func newService(t *testing.T, repo *mockGitRepository, content *mockContentStore, gen *mockGenerator) *ReviewService {
	t.Helper()
	var contentPort ports.ContentStore
	if content != nil {
		contentPort = content
	}
	var genPort ports.MessageGenerator
	if gen != nil {
		genPort = gen
	}
	svc, err := NewReviewService("/repo", repo, contentPort, genPort, nil)
	require.NoError(t, err)
	return svc
}

func TestRefresh_ParsesChanges(t *testing.T) {
	repo := &mockGitRepository{}
	repo.On("Status", mock.Anything).Return("M  src/a.ts\n?? src/b.ts\n", nil)
	svc := newService(t, repo, nil, nil)

	changes, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "src/a.ts", changes[0].Path)
	assert.True(t, changes[0].Staged)
}

func TestOpenReview_AllHunksPending(t *testing.T) {
	repo := &mockGitRepository{}
	repo.On("Diff", mock.Anything, "src/a.ts", false).Return(aDiff, nil)
	svc := newService(t, repo, nil, nil)

	diff, decisions, err := svc.OpenReview(context.Background(), "src/a.ts", false)

	require.NoError(t, err)
	require.Len(t, diff.Hunks, 1)
	assert.Equal(t, domain.HunkPending, decisions[diff.Hunks[0].ID])
}

func TestHunkOps_RequireOpenReview(t *testing.T) {
	svc := newService(t, &mockGitRepository{}, nil, nil)

	_, err := svc.AcceptHunk(context.Background(), "any")

	assert.ErrorIs(t, err, ErrNoReviewOpen)
}

func TestMaterialize_WritesAcceptedContent(t *testing.T) {
	repo := &mockGitRepository{}
	repo.On("Diff", mock.Anything, "src/a.ts", false).Return(aDiff, nil)
	content := &mockContentStore{}
	content.On("Read", mock.Anything, "src/a.ts").Return([]string{"x", "foo", "y"}, true, nil)
	content.On("Write", mock.Anything, "src/a.ts", []string{"x", "bar", "baz", "y"}).Return(nil)
	svc := newService(t, repo, content, nil)

	diff, _, err := svc.OpenReview(context.Background(), "src/a.ts", false)
	require.NoError(t, err)
	_, err = svc.AcceptHunk(context.Background(), diff.Hunks[0].ID)
	require.NoError(t, err)

	require.NoError(t, svc.Materialize(context.Background(), review.ApplyOptions{}))
	content.AssertExpectations(t)
}

func TestMaterialize_NewFileIgnoresExistingContent(t *testing.T) {
	newFileDiff := `diff --git a/n.txt b/n.txt
new file mode 100644
index 0000000..3b18e13
--- /dev/null
+++ b/n.txt
@@ -0,0 +1,2 @@
+a
+b
`
	repo := &mockGitRepository{}
	repo.On("Diff", mock.Anything, "n.txt", false).Return(newFileDiff, nil)
	content := &mockContentStore{}
	// An untracked file already holds the new side on disk.
	content.On("Read", mock.Anything, "n.txt").Return([]string{"a", "b"}, true, nil)
	content.On("Write", mock.Anything, "n.txt", []string{"a", "b"}).Return(nil)
	svc := newService(t, repo, content, nil)

	_, _, err := svc.OpenReview(context.Background(), "n.txt", false)
	require.NoError(t, err)
	_, err = svc.AcceptAll(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.Materialize(context.Background(), review.ApplyOptions{}))
	content.AssertExpectations(t)
}

func TestMaterialize_RefusesPendingByDefault(t *testing.T) {
	repo := &mockGitRepository{}
	repo.On("Diff", mock.Anything, "src/a.ts", false).Return(aDiff, nil)
	content := &mockContentStore{}
	content.On("Read", mock.Anything, "src/a.ts").Return([]string{"x", "foo", "y"}, true, nil)
	svc := newService(t, repo, content, nil)

	_, _, err := svc.OpenReview(context.Background(), "src/a.ts", false)
	require.NoError(t, err)

	err = svc.Materialize(context.Background(), review.ApplyOptions{})

	assert.ErrorIs(t, err, domain.ErrPendingDecisions)
	content.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
}

func TestMaterialize_ConflictWhenFileVanished(t *testing.T) {
	repo := &mockGitRepository{}
	repo.On("Diff", mock.Anything, "src/a.ts", false).Return(aDiff, nil)
	content := &mockContentStore{}
	content.On("Read", mock.Anything, "src/a.ts").Return(nil, false, nil)
	svc := newService(t, repo, content, nil)

	diff, _, err := svc.OpenReview(context.Background(), "src/a.ts", false)
	require.NoError(t, err)
	_, err = svc.AcceptHunk(context.Background(), diff.Hunks[0].ID)
	require.NoError(t, err)

	err = svc.Materialize(context.Background(), review.ApplyOptions{})

	var conflict *domain.ApplyConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestRefresh_ClosesOpenReview(t *testing.T) {
	repo := &mockGitRepository{}
	repo.On("Status", mock.Anything).Return("", nil)
	repo.On("Diff", mock.Anything, "src/a.ts", false).Return(aDiff, nil)
	svc := newService(t, repo, nil, nil)

	diff, _, err := svc.OpenReview(context.Background(), "src/a.ts", false)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background())
	require.NoError(t, err)

	_, err = svc.AcceptHunk(context.Background(), diff.Hunks[0].ID)
	assert.ErrorIs(t, err, ErrNoReviewOpen)
}

func TestGenerateCommitMessage_PrefersStagedDiff(t *testing.T) {
	repo := &mockGitRepository{}
	repo.On("Diff", mock.Anything, "", true).Return(aDiff, nil)
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, aDiff).Return("fix: replace foo", nil)
	svc := newService(t, repo, nil, gen)

	msg, err := svc.GenerateCommitMessage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "fix: replace foo", msg)
	repo.AssertNotCalled(t, "Diff", mock.Anything, "", false)
}

func TestGenerateCommitMessage_FallsBackToWorkingDiff(t *testing.T) {
	repo := &mockGitRepository{}
	repo.On("Diff", mock.Anything, "", true).Return("", nil)
	repo.On("Diff", mock.Anything, "", false).Return(aDiff, nil)
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, aDiff).Return("msg", nil)
	svc := newService(t, repo, nil, gen)

	msg, err := svc.GenerateCommitMessage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "msg", msg)
}

func TestGenerateCommitMessage_NothingToSummarize(t *testing.T) {
	repo := &mockGitRepository{}
	repo.On("Diff", mock.Anything, "", true).Return("", nil)
	repo.On("Diff", mock.Anything, "", false).Return("  \n", nil)
	gen := &mockGenerator{}
	svc := newService(t, repo, nil, gen)

	_, err := svc.GenerateCommitMessage(context.Background())

	assert.ErrorIs(t, err, domain.ErrNothingToSummarize)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestCommit_RejectsEmptyMessage(t *testing.T) {
	svc := newService(t, &mockGitRepository{}, nil, nil)

	err := svc.Commit(context.Background(), "   ")

	require.Error(t, err)
}

func TestPush_SurfacesOperationInProgress(t *testing.T) {
	repo := &mockGitRepository{}
	repo.On("Push", mock.Anything).Return(domain.ErrOperationInProgress)
	svc := newService(t, repo, nil, nil)

	err := svc.Push(context.Background())

	assert.ErrorIs(t, err, domain.ErrOperationInProgress)
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotARepository is returned by the repository probe when the
	// configured root is not inside a git work tree.
	ErrNotARepository = errors.New("not a git repository")

	// ErrOperationInProgress is returned when a mutating git command is
	// requested while another mutating command runs against the same
	// repository.
	ErrOperationInProgress = errors.New("operation in progress")

	// ErrNothingToSummarize is returned when commit-message generation is
	// requested but there is no diff text to summarize.
	ErrNothingToSummarize = errors.New("nothing to summarize: no staged or working tree changes")

	// ErrPendingDecisions is returned by Apply when hunks are still
	// pending and the caller did not opt into keeping their original
	// lines.
	ErrPendingDecisions = errors.New("diff has pending hunks")

	// ErrUnknownHunk is returned by review operations referencing a hunk
	// that does not belong to the diff under review.
	ErrUnknownHunk = errors.New("unknown hunk")
)

// CommandError is a non-zero exit from an invoked git command. The
// message is the raw stderr (stdout as fallback), never reinterpreted.
type CommandError struct {
	Op       string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = fmt.Sprintf("exit code %d", e.ExitCode)
	}
	return fmt.Sprintf("git %s: %s", e.Op, msg)
}

// ApplyConflictError means a hunk's recorded region no longer matches the
// file content it is being applied to. The whole apply for that file is
// aborted; no partial output is written.
type ApplyConflictError struct {
	Path   string
	HunkID string
	Line   int
	Reason string
}

func (e *ApplyConflictError) Error() string {
	return fmt.Sprintf("apply conflict in %s at line %d (%s): %s", e.Path, e.Line, e.HunkID, e.Reason)
}

// GeneratorError wraps a failure from the commit-message generation
// collaborator. The caller leaves any existing message untouched.
type GeneratorError struct {
	Err error
}

func (e *GeneratorError) Error() string {
	return fmt.Sprintf("commit message generation failed: %v", e.Err)
}

func (e *GeneratorError) Unwrap() error {
	return e.Err
}

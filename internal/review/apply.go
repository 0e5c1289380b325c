package review

import (
	"fmt"

	"revu/internal/domain"
)

// ApplyOptions controls materialization policy.
type ApplyOptions struct {
	// PendingKeepsOriginal makes pending hunks behave like rejected
	// ones. Without it, Apply refuses to run while any hunk is pending,
	// so a half-reviewed diff can never be materialized by accident.
	PendingKeepsOriginal bool
}

// Result is the outcome of materializing a diff against its original
// content.
type Result struct {
	Lines []string
	// Deleted is set when the diff deletes the file and every hunk was
	// accepted; the caller should remove the file instead of writing
	// Lines.
	Deleted bool
}

// Apply computes the file content resulting from the given decisions.
// original is the file's current lines (nil for a file that does not
// exist yet). Hunks are processed in descending OldStart order so earlier
// replacements never invalidate the offsets of hunks still to be
// processed. Accepted hunks have their old-side lines verified against
// the original before anything is replaced; a mismatch aborts the whole
// apply with an ApplyConflictError and no partial output.
func Apply(original []string, diff *domain.FileDiff, decisions Decisions, opts ApplyOptions) (Result, error) {
	if !opts.PendingKeepsOriginal {
		for _, h := range diff.Hunks {
			if decisions[h.ID] == domain.HunkPending {
				return Result{}, fmt.Errorf("%s: %w", diff.FilePath, domain.ErrPendingDecisions)
			}
		}
	}

	// Verify every accepted hunk before touching anything.
	for _, h := range diff.Hunks {
		if decisions[h.ID] != domain.HunkAccepted {
			continue
		}
		if err := verifyHunk(original, diff.FilePath, h); err != nil {
			return Result{}, err
		}
	}

	out := make([]string, len(original))
	copy(out, original)

	for i := len(diff.Hunks) - 1; i >= 0; i-- {
		h := diff.Hunks[i]
		if decisions[h.ID] != domain.HunkAccepted {
			continue
		}
		out = splice(out, spliceIndex(h), h.OldLineCount, h.NewLines())
	}

	if diff.IsDelete && len(out) == 0 && allAccepted(diff, decisions) {
		return Result{Deleted: true}, nil
	}
	return Result{Lines: out}, nil
}

// spliceIndex is the zero-based index of the hunk's old region. A zero
// OldLineCount means a pure insertion after line OldStart, which is the
// same index because nothing is consumed.
func spliceIndex(h *domain.Hunk) int {
	if h.OldLineCount == 0 {
		return h.OldStart
	}
	return h.OldStart - 1
}

// verifyHunk checks that the hunk's old-side lines are exactly what the
// original holds at the recorded coordinates. Context lines are retained
// by the parser precisely so this check is exact rather than best-effort.
func verifyHunk(original []string, path string, h *domain.Hunk) error {
	start := spliceIndex(h)
	if start < 0 || start+h.OldLineCount > len(original) {
		return &domain.ApplyConflictError{
			Path:   path,
			HunkID: h.ID,
			Line:   h.OldStart,
			Reason: fmt.Sprintf("range exceeds file length %d", len(original)),
		}
	}

	for i, want := range h.OldLines() {
		if got := original[start+i]; got != want {
			return &domain.ApplyConflictError{
				Path:   path,
				HunkID: h.ID,
				Line:   h.OldStart + i,
				Reason: fmt.Sprintf("expected %q, file has %q", want, got),
			}
		}
	}
	return nil
}

func splice(lines []string, start, count int, replacement []string) []string {
	out := make([]string, 0, len(lines)-count+len(replacement))
	out = append(out, lines[:start]...)
	out = append(out, replacement...)
	out = append(out, lines[start+count:]...)
	return out
}

func allAccepted(diff *domain.FileDiff, decisions Decisions) bool {
	for _, h := range diff.Hunks {
		if decisions[h.ID] != domain.HunkAccepted {
			return false
		}
	}
	return true
}

package domain

import "fmt"

// HunkStatus is the review decision recorded against a hunk.
type HunkStatus int

const (
	HunkPending HunkStatus = iota
	HunkAccepted
	HunkRejected
)

// String returns the human-readable decision name
func (s HunkStatus) String() string {
	switch s {
	case HunkAccepted:
		return "accepted"
	case HunkRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// LineKind classifies a line within a hunk body.
type LineKind int

const (
	LineContext LineKind = iota
	LineRemoved
	LineAdded
)

// Line is a single hunk body line. Context lines are retained so a hunk
// can be verified exactly against the file it is applied to, not just by
// its header coordinates.
type Line struct {
	Kind LineKind
	Text string
}

// Hunk is a contiguous block of changes within one file's diff.
// OldStart/OldLineCount address the region in the original file,
// NewStart/NewLineCount the region in the new file. A count of zero means
// the hunk only inserts (or only deletes) and the start line is the anchor.
type Hunk struct {
	ID           string
	OldStart     int
	OldLineCount int
	NewStart     int
	NewLineCount int
	Lines        []Line
}

// HunkID builds the stable identifier for a hunk: file path, ordinal
// within the file, and the header coordinates. Stable for the lifetime of
// one parse so review actions keep addressing the correct hunk across
// re-renders.
func HunkID(path string, ordinal, oldStart, oldCount, newStart, newCount int) string {
	return fmt.Sprintf("%s#%d@-%d,%d+%d,%d", path, ordinal, oldStart, oldCount, newStart, newCount)
}

// RemovedLines returns the text of the lines the hunk removes, in order.
func (h *Hunk) RemovedLines() []string {
	return h.linesOfKind(LineRemoved)
}

// AddedLines returns the text of the lines the hunk adds, in order.
func (h *Hunk) AddedLines() []string {
	return h.linesOfKind(LineAdded)
}

// OldLines returns the hunk's old-side lines (context and removed, in
// body order). This is exactly the region the hunk expects to find at
// OldStart in the original file.
func (h *Hunk) OldLines() []string {
	out := make([]string, 0, h.OldLineCount)
	for _, l := range h.Lines {
		if l.Kind == LineContext || l.Kind == LineRemoved {
			out = append(out, l.Text)
		}
	}
	return out
}

// NewLines returns the hunk's new-side lines (context and added, in body
// order): the region that replaces OldLines when the hunk is accepted.
func (h *Hunk) NewLines() []string {
	out := make([]string, 0, h.NewLineCount)
	for _, l := range h.Lines {
		if l.Kind == LineContext || l.Kind == LineAdded {
			out = append(out, l.Text)
		}
	}
	return out
}

func (h *Hunk) linesOfKind(kind LineKind) []string {
	var out []string
	for _, l := range h.Lines {
		if l.Kind == kind {
			out = append(out, l.Text)
		}
	}
	return out
}

// FileDiff is the parsed diff for one file in one comparison
// (staged-vs-HEAD or worktree-vs-index). Hunks are ordered by OldStart
// and non-overlapping.
type FileDiff struct {
	FilePath  string
	Hunks     []*Hunk
	IsNewFile bool
	IsDelete  bool
}

// Hunk returns the hunk with the given ID, or nil.
func (d *FileDiff) Hunk(id string) *Hunk {
	for _, h := range d.Hunks {
		if h.ID == id {
			return h
		}
	}
	return nil
}

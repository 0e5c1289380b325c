package domain

// FileStatus classifies a single change reported by git status.
type FileStatus int

const (
	StatusModified FileStatus = iota
	StatusAdded
	StatusDeleted
	StatusRenamed
	StatusUntracked
	StatusConflicted
)

// String returns the human-readable status name
func (s FileStatus) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	case StatusUntracked:
		return "untracked"
	case StatusConflicted:
		return "conflicted"
	default:
		return "unknown"
	}
}

// StatusFromCode maps a porcelain status letter to a FileStatus.
// Unknown letters fall back to StatusModified so one odd line never
// blocks the rest of the report.
func StatusFromCode(code byte) FileStatus {
	switch code {
	case 'A':
		return StatusAdded
	case 'D':
		return StatusDeleted
	case 'R':
		return StatusRenamed
	case 'U':
		return StatusConflicted
	default:
		return StatusModified
	}
}

// FileChange is one row of the change list: a path, how it changed, and
// whether the change lives in the index (staged) or the working tree.
// A path can appear twice when index and working tree differ independently.
// The list is recreated wholesale on every refresh; entries are never
// mutated in place.
type FileChange struct {
	Path   string
	Status FileStatus
	Staged bool
}

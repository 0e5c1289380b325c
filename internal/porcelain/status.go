// Package porcelain parses `git status --porcelain` output into the
// change list consumed by the review engine. Parsing is a pure function
// of the input text; malformed lines are skipped, never fatal.
package porcelain

import (
	"strconv"
	"strings"

	"revu/internal/domain"
	"revu/internal/logging"
)

// Parse turns porcelain status text into an ordered list of FileChanges.
// Each line is `XY <path>` where X is the index column and Y the work
// tree column; a space or '?' means no change in that column. Empty input
// yields an empty list.
func Parse(text string) []domain.FileChange {
	changes := make([]domain.FileChange, 0, 16)

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimRight(line, "\r") == "" {
			continue
		}
		if len(line) < 4 || line[2] != ' ' {
			logging.Logger.Warn("Skipping malformed status line", "line", line)
			continue
		}

		x, y := line[0], line[1]
		path := parsePath(line[3:])
		if path == "" {
			logging.Logger.Warn("Skipping status line with empty path", "line", line)
			continue
		}

		// Untracked files report '?' in both columns and get a single
		// unstaged entry.
		if x == '?' && y == '?' {
			changes = append(changes, domain.FileChange{
				Path:   path,
				Status: domain.StatusUntracked,
				Staged: false,
			})
			continue
		}

		if x != ' ' && x != '?' {
			changes = append(changes, domain.FileChange{
				Path:   path,
				Status: domain.StatusFromCode(x),
				Staged: true,
			})
		}

		if y != ' ' && y != '?' {
			unstaged := domain.FileChange{
				Path:   path,
				Status: domain.StatusFromCode(y),
				Staged: false,
			}
			// When index and work tree agree the staged entry already
			// covers the row.
			if !hasSameRow(changes, unstaged) {
				changes = append(changes, unstaged)
			}
		}
	}

	return changes
}

// hasSameRow reports whether an entry for the same path with an identical
// status is already present.
func hasSameRow(changes []domain.FileChange, c domain.FileChange) bool {
	for _, existing := range changes {
		if existing.Path == c.Path && existing.Status == c.Status {
			return true
		}
	}
	return false
}

// parsePath recovers the path from the remainder of a status line. Rename
// records read `old -> new`; the new path wins. Paths with special
// characters arrive wrapped in C-style quoting.
func parsePath(raw string) string {
	raw = strings.TrimRight(raw, "\r")

	if idx := strings.Index(raw, " -> "); idx >= 0 {
		raw = raw[idx+4:]
	}

	if len(raw) >= 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) {
		if unquoted, err := strconv.Unquote(raw); err == nil {
			return unquoted
		}
		logging.Logger.Warn("Failed to unquote status path", "path", raw)
		return strings.Trim(raw, `"`)
	}

	return raw
}

// Package unidiff parses unified-diff text into the addressable hunk
// model used for review. Parsing is pure; a malformed file segment or
// hunk is skipped and the rest of the input survives.
package unidiff

import (
	"sort"
	"strings"

	sgdiff "github.com/sourcegraph/go-diff/diff"

	"revu/internal/domain"
	"revu/internal/logging"
)

const fileHeaderMarker = "diff --git "

// Parse turns unified-diff text, possibly covering multiple files, into a
// list of FileDiffs. Empty or whitespace-only input yields an empty list.
func Parse(text string) []*domain.FileDiff {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	raw := []byte(text)
	fileDiffs, err := sgdiff.ParseMultiFileDiff(raw)
	if err != nil {
		// One bad segment must not poison the rest: fall back to
		// splitting at the per-file header and parsing each segment on
		// its own.
		logging.Logger.Warn("Multi-file diff parse failed, parsing per segment", "error", err)
		fileDiffs = parseSegments(text)
	}

	out := make([]*domain.FileDiff, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		out = append(out, convertFileDiff(fd))
	}
	return out
}

// parseSegments splits the input at each file-header marker and parses
// the segments individually. A segment that fails as a whole is retried
// hunk by hunk so one malformed hunk header cannot take the file's valid
// hunks with it.
func parseSegments(text string) []*sgdiff.FileDiff {
	var segments []string
	var current []string

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, fileHeaderMarker) && len(current) > 0 {
			segments = append(segments, strings.Join(current, "\n"))
			current = current[:0]
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		segments = append(segments, strings.Join(current, "\n"))
	}

	var out []*sgdiff.FileDiff
	for _, segment := range segments {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		fd, err := sgdiff.ParseFileDiff([]byte(segment))
		if err != nil {
			logging.Logger.Warn("Segment parse failed, recovering per hunk", "error", err)
			fd = recoverSegmentHunks(segment)
			if fd == nil {
				logging.Logger.Warn("Skipping unparseable diff segment")
				continue
			}
		}
		out = append(out, fd)
	}
	return out
}

// recoverSegmentHunks re-parses a failed segment one hunk at a time: the
// file header plus each hunk body on its own. Hunks whose header cannot
// be parsed are dropped; the survivors are merged back into one file
// diff. Returns nil when nothing in the segment parses.
func recoverSegmentHunks(segment string) *sgdiff.FileDiff {
	header, hunks := splitAtHunkHeaders(segment)
	if header == "" || len(hunks) == 0 {
		return nil
	}

	var out *sgdiff.FileDiff
	for _, hunk := range hunks {
		fd, err := sgdiff.ParseFileDiff([]byte(header + hunk + "\n"))
		if err != nil || len(fd.Hunks) == 0 {
			logging.Logger.Warn("Skipping unparseable hunk", "error", err)
			continue
		}
		if out == nil {
			out = fd
			continue
		}
		out.Hunks = append(out.Hunks, fd.Hunks...)
	}
	return out
}

// splitAtHunkHeaders separates a file segment into its header (the lines
// before the first hunk) and one chunk per "@@ " hunk-header line.
func splitAtHunkHeaders(segment string) (string, []string) {
	var header []string
	var hunks []string
	var current []string

	for _, line := range strings.Split(segment, "\n") {
		if strings.HasPrefix(line, "@@ ") {
			if len(current) > 0 {
				hunks = append(hunks, strings.Join(trimTrailingEmpty(current), "\n"))
			}
			current = []string{line}
			continue
		}
		if len(current) > 0 {
			current = append(current, line)
		} else {
			header = append(header, line)
		}
	}
	if len(current) > 0 {
		hunks = append(hunks, strings.Join(trimTrailingEmpty(current), "\n"))
	}

	if len(header) == 0 {
		return "", hunks
	}
	return strings.Join(header, "\n") + "\n", hunks
}

func trimTrailingEmpty(lines []string) []string {
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// convertFileDiff maps a go-diff FileDiff onto the domain model: path
// normalization, new/delete detection, hunk bodies classified into
// removed/added/context lines, stable IDs, and the ordering invariant.
func convertFileDiff(fd *sgdiff.FileDiff) *domain.FileDiff {
	path := normalizePath(fd)

	out := &domain.FileDiff{
		FilePath:  path,
		IsNewFile: isNewFile(fd),
		IsDelete:  isDelete(fd),
		Hunks:     make([]*domain.Hunk, 0, len(fd.Hunks)),
	}

	converted := make([]*domain.Hunk, 0, len(fd.Hunks))
	for i, h := range fd.Hunks {
		if hunk := convertHunk(path, i, h); hunk != nil {
			converted = append(converted, hunk)
		}
	}

	// Enforce the ordering and non-overlap invariant on what survives.
	sort.SliceStable(converted, func(i, j int) bool {
		return converted[i].OldStart < converted[j].OldStart
	})
	for _, hunk := range converted {
		if overlapsLast(out.Hunks, hunk) {
			logging.Logger.Warn("Dropping overlapping hunk", "path", path, "hunk", hunk.ID)
			continue
		}
		out.Hunks = append(out.Hunks, hunk)
	}

	return out
}

func convertHunk(path string, ordinal int, h *sgdiff.Hunk) *domain.Hunk {
	hunk := &domain.Hunk{
		ID:           domain.HunkID(path, ordinal, int(h.OrigStartLine), int(h.OrigLines), int(h.NewStartLine), int(h.NewLines)),
		OldStart:     int(h.OrigStartLine),
		OldLineCount: int(h.OrigLines),
		NewStart:     int(h.NewStartLine),
		NewLineCount: int(h.NewLines),
	}

	oldSeen, newSeen := 0, 0
	for _, line := range splitHunkBody(h.Body) {
		if line == "" {
			// Tolerate trimmed empty context lines.
			hunk.Lines = append(hunk.Lines, domain.Line{Kind: domain.LineContext})
			oldSeen++
			newSeen++
			continue
		}
		switch line[0] {
		case ' ':
			hunk.Lines = append(hunk.Lines, domain.Line{Kind: domain.LineContext, Text: line[1:]})
			oldSeen++
			newSeen++
		case '-':
			hunk.Lines = append(hunk.Lines, domain.Line{Kind: domain.LineRemoved, Text: line[1:]})
			oldSeen++
		case '+':
			hunk.Lines = append(hunk.Lines, domain.Line{Kind: domain.LineAdded, Text: line[1:]})
			newSeen++
		case '\\':
			// "\ No newline at end of file"
		default:
			logging.Logger.Warn("Skipping hunk with unexpected body line", "path", path, "hunk", hunk.ID, "line", line)
			return nil
		}
	}

	if oldSeen != hunk.OldLineCount || newSeen != hunk.NewLineCount {
		logging.Logger.Warn("Skipping hunk with inconsistent header counts",
			"path", path,
			"hunk", hunk.ID,
			"old_seen", oldSeen,
			"new_seen", newSeen)
		return nil
	}

	return hunk
}

// overlapsLast checks the non-overlap/ordering invariant: the previous
// hunk's old region must end before the next one starts.
func overlapsLast(hunks []*domain.Hunk, next *domain.Hunk) bool {
	if len(hunks) == 0 {
		return false
	}
	last := hunks[len(hunks)-1]
	return last.OldStart+last.OldLineCount > next.OldStart
}

func normalizePath(fd *sgdiff.FileDiff) string {
	path := fd.NewName
	if path == "" || path == "/dev/null" {
		path = fd.OrigName
	}
	path = strings.TrimSpace(path)
	path = strings.TrimPrefix(path, "a/")
	path = strings.TrimPrefix(path, "b/")
	return path
}

func isNewFile(fd *sgdiff.FileDiff) bool {
	if fd.OrigName == "/dev/null" {
		return true
	}
	for _, line := range fd.Extended {
		if strings.HasPrefix(line, "new file mode") {
			return true
		}
	}
	return false
}

func isDelete(fd *sgdiff.FileDiff) bool {
	if fd.NewName == "/dev/null" {
		return true
	}
	for _, line := range fd.Extended {
		if strings.HasPrefix(line, "deleted file mode") {
			return true
		}
	}
	return false
}

func splitHunkBody(body []byte) []string {
	lines := strings.Split(strings.ReplaceAll(string(body), "\r\n", "\n"), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

package ports

import "context"

// ContentStore reads and writes file content for patch materialization.
// Paths are relative to the repository root.
type ContentStore interface {
	// Read returns the file's lines and whether the file exists. A
	// missing file is not an error: it is the original content of a new
	// file.
	Read(ctx context.Context, path string) (lines []string, exists bool, err error)

	// Write replaces the file's content with the given lines.
	Write(ctx context.Context, path string, lines []string) error

	// Remove deletes the file (a fully accepted delete diff).
	Remove(ctx context.Context, path string) error
}

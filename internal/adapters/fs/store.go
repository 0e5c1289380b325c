// Package fs implements the content store on the local filesystem,
// rooted at the repository directory.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"revu/internal/logging"
	"revu/internal/ports"
)

// Store reads and writes repository files as line slices.
type Store struct {
	root string
}

// Verify interface compliance at compile time
var _ ports.ContentStore = (*Store)(nil)

// NewStore creates a store rooted at the repository directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Read implements ContentStore.Read. A missing file is reported through
// the exists flag, not as an error: it is the original content of a file
// the diff creates.
func (s *Store) Read(ctx context.Context, path string) ([]string, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(s.abs(path))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}

	return splitLines(string(data)), true, nil
}

// Write implements ContentStore.Write, replacing the file's content. A
// non-empty file always ends with a final newline.
func (s *Store) Write(ctx context.Context, path string, lines []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := s.abs(path)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}

	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	logging.Logger.Debug("Wrote materialized content", "path", path, "lines", len(lines))
	return nil
}

// Remove implements ContentStore.Remove.
func (s *Store) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.abs(path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

func (s *Store) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.root, path)
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}

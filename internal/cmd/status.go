package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"revu/internal/domain"
)

// StatusCmd lists the changed files in the worktree
type StatusCmd struct{}

// Run executes the status command
func (s *StatusCmd) Run(cli *CLI) error {
	changes, err := cli.Container.ReviewService.Refresh(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}

	if len(changes) == 0 {
		fmt.Println("Working tree clean.")
		return nil
	}

	for _, change := range changes {
		area := "unstaged"
		if change.Staged {
			area = "staged"
		}
		fmt.Printf("%s  %-9s %s\n", statusColor(change.Status).Sprintf("%-10s", change.Status), area, change.Path)
	}
	return nil
}

func statusColor(status domain.FileStatus) *color.Color {
	switch status {
	case domain.StatusAdded, domain.StatusUntracked:
		return color.New(color.FgGreen)
	case domain.StatusDeleted:
		return color.New(color.FgRed)
	case domain.StatusRenamed:
		return color.New(color.FgCyan)
	case domain.StatusConflicted:
		return color.New(color.FgMagenta)
	default:
		return color.New(color.FgYellow)
	}
}

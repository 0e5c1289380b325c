package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"revu/internal/logging"
	"revu/internal/watch"
)

// WatchCmd watches the worktree and reprints the change list on every
// filesystem change
type WatchCmd struct{}

// Run executes the watch command
func (w *WatchCmd) Run(cli *CLI) error {
	ctx := context.Background()
	svc := cli.Container.ReviewService

	printChanges := func() {
		changes, err := svc.Refresh(ctx)
		if err != nil {
			logging.Logger.Warn("Refresh failed during watch", "error", err)
			fmt.Fprintf(os.Stderr, "refresh failed: %v\n", err)
			return
		}
		fmt.Printf("--- %d changed file(s)\n", len(changes))
		for _, change := range changes {
			area := "unstaged"
			if change.Staged {
				area = "staged"
			}
			fmt.Printf("%s  %-9s %s\n", statusColor(change.Status).Sprintf("%-10s", change.Status), area, change.Path)
		}
	}

	watcher, err := watch.New(cli.Container.RepoRoot, printChanges)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	printChanges()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	return nil
}

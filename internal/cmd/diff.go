package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"revu/internal/domain"
	"revu/internal/review"
)

// DiffCmd shows the parsed diff for one file, hunk by hunk
type DiffCmd struct {
	Path   string `arg:"" help:"File path relative to the repository root"`
	Staged bool   `help:"Show the staged diff instead of the unstaged one" short:"s"`
}

// Run executes the diff command
func (d *DiffCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if _, err := cli.Container.ReviewService.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}

	diff, decisions, err := cli.Container.ReviewService.OpenReview(ctx, d.Path, d.Staged)
	if err != nil {
		return fmt.Errorf("failed to get diff: %w", err)
	}

	if len(diff.Hunks) == 0 {
		fmt.Printf("No changes in %s.\n", d.Path)
		return nil
	}

	printFileDiff(diff, decisions)
	return nil
}

func printFileDiff(diff *domain.FileDiff, decisions review.Decisions) {
	header := color.New(color.FgCyan, color.Bold)
	header.Println(diff.FilePath)

	for _, hunk := range diff.Hunks {
		printHunk(hunk, decisions[hunk.ID])
	}
}

func printHunk(hunk *domain.Hunk, status domain.HunkStatus) {
	hunkHeader := color.New(color.FgBlue)
	hunkHeader.Printf("@@ -%d,%d +%d,%d @@", hunk.OldStart, hunk.OldLineCount, hunk.NewStart, hunk.NewLineCount)
	fmt.Printf("  [%s] %s\n", hunk.ID, decisionLabel(status))

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	for _, line := range hunk.Lines {
		switch line.Kind {
		case domain.LineAdded:
			added.Printf("+%s\n", line.Text)
		case domain.LineRemoved:
			removed.Printf("-%s\n", line.Text)
		default:
			fmt.Printf(" %s\n", line.Text)
		}
	}
}

func decisionLabel(status domain.HunkStatus) string {
	switch status {
	case domain.HunkAccepted:
		return color.GreenString("accepted")
	case domain.HunkRejected:
		return color.RedString("rejected")
	default:
		return color.YellowString("pending")
	}
}

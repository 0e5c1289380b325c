package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
)

// StatsCmd shows repository change statistics
type StatsCmd struct{}

// Run executes the stats command
func (s *StatsCmd) Run(cli *CLI) error {
	stats, err := cli.Container.ReviewService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}

	fmt.Printf("Changed files: %d\n", stats.ChangedFiles)
	fmt.Printf("Lines:         %s %s\n",
		color.GreenString("+%d", stats.Additions),
		color.RedString("-%d", stats.Deletions))
	fmt.Printf("Remote:        %d ahead, %d behind\n", stats.Ahead, stats.Behind)
	return nil
}

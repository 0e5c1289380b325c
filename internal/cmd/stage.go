package cmd

import (
	"context"
	"fmt"
)

// StageCmd stages files
type StageCmd struct {
	Paths []string `arg:"" help:"File paths to stage"`
}

// Run executes the stage command
func (s *StageCmd) Run(cli *CLI) error {
	if err := cli.Container.ReviewService.Stage(context.Background(), s.Paths...); err != nil {
		return fmt.Errorf("failed to stage: %w", err)
	}
	return nil
}

// UnstageCmd removes files from the index
type UnstageCmd struct {
	Paths []string `arg:"" help:"File paths to unstage"`
}

// Run executes the unstage command
func (u *UnstageCmd) Run(cli *CLI) error {
	if err := cli.Container.ReviewService.Unstage(context.Background(), u.Paths...); err != nil {
		return fmt.Errorf("failed to unstage: %w", err)
	}
	return nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"

	"revu/internal/domain"
)

// CommitCmd commits the staged changes
type CommitCmd struct {
	Message  string `help:"Commit message" short:"m" xor:"source"`
	Generate bool   `help:"Generate the message from the staged diff" short:"g" xor:"source"`
}

// Run executes the commit command
func (c *CommitCmd) Run(cli *CLI) error {
	ctx := context.Background()
	svc := cli.Container.ReviewService

	message := c.Message
	if c.Generate {
		generated, err := svc.GenerateCommitMessage(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNothingToSummarize) {
				return fmt.Errorf("nothing to summarize: no staged or working changes")
			}
			return fmt.Errorf("failed to generate commit message: %w", err)
		}
		message = generated
		fmt.Printf("Generated message:\n%s\n\n", message)
	}

	if message == "" {
		return fmt.Errorf("specify --message or --generate")
	}

	if err := svc.Commit(ctx, message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	fmt.Println("Committed.")
	return nil
}

// PushCmd pushes the current branch
type PushCmd struct{}

// Run executes the push command
func (p *PushCmd) Run(cli *CLI) error {
	if err := cli.Container.ReviewService.Push(context.Background()); err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}
	fmt.Println("Pushed.")
	return nil
}

// PullCmd pulls from the remote
type PullCmd struct{}

// Run executes the pull command
func (p *PullCmd) Run(cli *CLI) error {
	if err := cli.Container.ReviewService.Pull(context.Background()); err != nil {
		return fmt.Errorf("failed to pull: %w", err)
	}
	fmt.Println("Pulled.")
	return nil
}

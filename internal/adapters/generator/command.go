// Package generator adapts an external command into the commit-message
// generation collaborator. The command receives the diff on stdin and
// prints the message on stdout; how it talks to a model is its business.
package generator

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"revu/internal/domain"
	"revu/internal/logging"
	"revu/internal/ports"
)

// CommandGenerator runs a configured executable to summarize a diff.
type CommandGenerator struct {
	command string
	args    []string
}

// Verify interface compliance at compile time
var _ ports.MessageGenerator = (*CommandGenerator)(nil)

// NewCommandGenerator creates a generator invoking the given command.
func NewCommandGenerator(command string, args ...string) *CommandGenerator {
	return &CommandGenerator{command: command, args: args}
}

// Generate implements MessageGenerator.Generate.
func (g *CommandGenerator) Generate(ctx context.Context, diff string) (string, error) {
	logging.Logger.Debug("Generating commit message", "command", g.command, "diff_bytes", len(diff))

	cmd := exec.CommandContext(ctx, g.command, g.args...)
	cmd.Stdin = strings.NewReader(diff)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &domain.GeneratorError{
			Err: fmt.Errorf("%s: %w (%s)", g.command, err, strings.TrimSpace(string(out))),
		}
	}

	message := strings.TrimSpace(string(out))
	if message == "" {
		return "", &domain.GeneratorError{Err: fmt.Errorf("%s produced an empty message", g.command)}
	}
	return message, nil
}

package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"revu/internal/domain"
	"revu/internal/logging"
)

// runner executes the git binary inside one repository root.
type runner struct {
	root   string
	gitBin string
}

func newRunner(root, gitBin string) *runner {
	if strings.TrimSpace(gitBin) == "" {
		gitBin = "git"
	}
	return &runner{root: root, gitBin: gitBin}
}

// run executes one git command. A non-zero exit becomes a
// domain.CommandError carrying the raw stderr (stdout as fallback),
// never a reinterpreted message.
func (r *runner) run(ctx context.Context, op string, args ...string) (string, error) {
	logging.Logger.Debug("Running git command", "op", op, "root", r.root)

	cmd := exec.CommandContext(ctx, r.gitBin, args...)
	cmd.Dir = r.root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg == "" {
			msg = err.Error()
		}

		logging.Logger.Debug("Git command failed", "op", op, "exit_code", exitCode, "stderr", msg)
		return "", &domain.CommandError{
			Op:       op,
			Args:     args,
			ExitCode: exitCode,
			Stderr:   msg,
		}
	}

	return stdout.String(), nil
}

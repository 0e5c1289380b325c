package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"revu/internal/config"
	"revu/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`
	Repo        string           `help:"Repository path (defaults to current directory)" short:"C" default:"."`

	Status  StatusCmd  `cmd:"status" help:"List changed files" default:"1"`
	Diff    DiffCmd    `cmd:"diff" help:"Show the parsed diff for a file"`
	Review  ReviewCmd  `cmd:"review" help:"Review hunks: accept, reject, apply"`
	Stage   StageCmd   `cmd:"stage" help:"Stage files"`
	Unstage UnstageCmd `cmd:"unstage" help:"Unstage files"`
	Commit  CommitCmd  `cmd:"commit" help:"Commit staged changes"`
	Push    PushCmd    `cmd:"push" help:"Push to the remote"`
	Pull    PullCmd    `cmd:"pull" help:"Pull from the remote"`
	Stats   StatsCmd   `cmd:"stats" help:"Show repository change statistics"`
	Watch   WatchCmd   `cmd:"watch" help:"Watch the worktree and print the change list on every change"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Precedence: CLI flags > env vars > settings.json > defaults

	if c.settings != nil {
		if c.MaxLogFiles == 1000 {
			if _, hasEnv := os.LookupEnv("REVU_MAX_LOG_FILES"); !hasEnv {
				if c.settings.MaxLogFiles != nil {
					c.MaxLogFiles = *c.settings.MaxLogFiles
				}
			}
		}

		if !c.Debug {
			if _, hasEnv := os.LookupEnv("REVU_DEBUG"); !hasEnv {
				if c.settings.Debug != nil && *c.settings.Debug {
					c.Debug = true
				}
			}
		}
	}

	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Export so child processes (the message generator command) append
	// to the same log file.
	if c.Debug || c.DebugFile != "" {
		os.Setenv("REVU_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("REVU_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != 1000 {
		os.Setenv("REVU_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	container, err := NewContainer(c.Repo, c.settings)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container

	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}

package cmd

import (
	"context"
	"path/filepath"

	adapterfs "revu/internal/adapters/fs"
	adaptergenerator "revu/internal/adapters/generator"
	adaptergit "revu/internal/adapters/git"
	adapterstorage "revu/internal/adapters/storage"
	"revu/internal/config"
	"revu/internal/logging"
	"revu/internal/ports"
	"revu/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	RepoRoot      string
	ReviewService *services.ReviewService

	// Internal - for cleanup only
	reviewStore *adapterstorage.SQLiteReviewStore
}

// NewContainer creates a new Container with all dependencies wired. The
// repository root is resolved from dir, so commands work from any
// subdirectory of the worktree.
func NewContainer(dir string, settings *config.Settings) (*Container, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	gitBin := "git"
	if settings != nil && settings.GitBin != "" {
		gitBin = settings.GitBin
	}

	// Probe from the given directory to find the actual worktree root,
	// then bind every adapter to that root.
	probe := adaptergit.NewCLIRepository(abs, gitBin)
	root, err := probe.Probe(context.Background())
	if err != nil {
		return nil, err
	}

	gitRepo := adaptergit.NewCLIRepository(root, gitBin)
	contentStore := adapterfs.NewStore(root)

	dbPath := config.GetDefaultDatabasePath()
	if settings != nil && settings.DatabasePath != "" {
		dbPath = settings.DatabasePath
	}
	reviewStore, err := adapterstorage.NewSQLiteReviewStore(dbPath)
	if err != nil {
		return nil, err
	}

	var generator ports.MessageGenerator
	if settings != nil && len(settings.GeneratorCommand) > 0 {
		generator = adaptergenerator.NewCommandGenerator(
			settings.GeneratorCommand[0],
			settings.GeneratorCommand[1:]...,
		)
	}

	reviewService, err := services.NewReviewService(root, gitRepo, contentStore, generator, reviewStore)
	if err != nil {
		reviewStore.Close()
		return nil, err
	}

	logging.Logger.Debug("Container initialized", "root", root, "db", dbPath)

	return &Container{
		RepoRoot:      root,
		ReviewService: reviewService,
		reviewStore:   reviewStore,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.reviewStore != nil {
		return c.reviewStore.Close()
	}
	return nil
}

// Package storage persists review decisions in a local sqlite database
// so an interrupted review resumes where it left off.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"revu/internal/domain"
	"revu/internal/logging"
	"revu/internal/ports"
)

// SQLiteReviewStore implements ports.ReviewStore using GORM
type SQLiteReviewStore struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.ReviewStore = (*SQLiteReviewStore)(nil)

// gormLogger bridges GORM logging onto the application logger
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else if elapsed > 200*time.Millisecond {
		logging.Logger.Warn("slow query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

// NewSQLiteReviewStore opens (creating if needed) the database at dbPath
// and migrates the schema.
func NewSQLiteReviewStore(dbPath string) (*SQLiteReviewStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: &gormLogger{level: logger.Warn},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&ReviewDecisionModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteReviewStore{db: db}, nil
}

// SaveDecisions upserts the decision map for one reviewed file.
func (s *SQLiteReviewStore) SaveDecisions(ctx context.Context, repoRoot, path string, staged bool, decisions map[string]domain.HunkStatus) error {
	if len(decisions) == 0 {
		return nil
	}

	models := make([]ReviewDecisionModel, 0, len(decisions))
	for hunkID, status := range decisions {
		models = append(models, decisionToModel(repoRoot, path, staged, hunkID, status))
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "repo_root"}, {Name: "path"}, {Name: "staged"}, {Name: "hunk_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"decision", "updated_at"}),
		}).
		Create(&models).Error
	if err != nil {
		return fmt.Errorf("failed to save review decisions: %w", err)
	}
	return nil
}

// LoadDecisions returns the persisted decision map for one file, empty if
// nothing was saved.
func (s *SQLiteReviewStore) LoadDecisions(ctx context.Context, repoRoot, path string, staged bool) (map[string]domain.HunkStatus, error) {
	var models []ReviewDecisionModel
	err := s.db.WithContext(ctx).
		Where("repo_root = ? AND path = ? AND staged = ?", repoRoot, path, staged).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load review decisions: %w", err)
	}

	out := make(map[string]domain.HunkStatus, len(models))
	for _, m := range models {
		out[m.HunkID] = statusFromModel(m)
	}
	return out, nil
}

// Close closes the underlying database connection.
func (s *SQLiteReviewStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

// ClearDecisions drops the persisted decisions for one file, used after a
// successful materialization.
func (s *SQLiteReviewStore) ClearDecisions(ctx context.Context, repoRoot, path string, staged bool) error {
	err := s.db.WithContext(ctx).
		Where("repo_root = ? AND path = ? AND staged = ?", repoRoot, path, staged).
		Delete(&ReviewDecisionModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear review decisions: %w", err)
	}
	return nil
}

package storage

import "time"

// ReviewDecisionModel is the GORM model for persisted hunk decisions
type ReviewDecisionModel struct {
	CreatedAt time.Time
	Decision  string `gorm:"not null;check:decision IN ('pending','accepted','rejected')"`
	HunkID    string `gorm:"primaryKey"`
	Path      string `gorm:"primaryKey;index:idx_review_file"`
	RepoRoot  string `gorm:"primaryKey;index:idx_review_file"`
	Staged    bool   `gorm:"primaryKey;index:idx_review_file"`
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (ReviewDecisionModel) TableName() string { return "review_decisions" }

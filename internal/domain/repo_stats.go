package domain

import "time"

// RepoStats holds working tree statistics for the shell header
type RepoStats struct {
	Additions    int       // Lines added in working directory
	Ahead        int       // Commits ahead of tracking branch
	Behind       int       // Commits behind tracking branch
	ChangedFiles int       // Number of changed files in working directory
	Deletions    int       // Lines deleted in working directory
	FetchedAt    time.Time // When these stats were fetched
}

package storage

import "revu/internal/domain"

func decisionToModel(repoRoot, path string, staged bool, hunkID string, status domain.HunkStatus) ReviewDecisionModel {
	return ReviewDecisionModel{
		RepoRoot: repoRoot,
		Path:     path,
		Staged:   staged,
		HunkID:   hunkID,
		Decision: status.String(),
	}
}

func statusFromModel(m ReviewDecisionModel) domain.HunkStatus {
	switch m.Decision {
	case "accepted":
		return domain.HunkAccepted
	case "rejected":
		return domain.HunkRejected
	default:
		return domain.HunkPending
	}
}

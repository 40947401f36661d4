package leaderboard

import (
	"context"
	"fmt"

	"github.com/iseven/vnu-connect-x/internal/models"
	"github.com/iseven/vnu-connect-x/internal/progression"
)

// LearnerStats represents the profile statistics of a learner.
type LearnerStats struct {
	LearnerID         uint                  `json:"learner_id"`
	Name              string                `json:"name"`
	Major             string                `json:"major"`
	XP                int                   `json:"xp"`
	Level             progression.LevelInfo `json:"level"`
	Skills            []string              `json:"skills"`
	Achievements      []models.Achievement  `json:"achievements"`
	PathwaysEnrolled  int                   `json:"pathways_enrolled"`
	PathwaysCompleted int                   `json:"pathways_completed"`
	MissionsCompleted int                   `json:"missions_completed"`
	MissionsTotal     int                   `json:"missions_total"`
	GlobalRank        int                   `json:"global_rank"`
	MajorRank         int                   `json:"major_rank"`
}

// GetLearnerStats returns the level, rank, skills and pathway completion of a learner.
func (s *Service) GetLearnerStats(ctx context.Context, learnerID uint) (*LearnerStats, error) {
	learner, err := s.learnerRepo.GetByID(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}

	level, err := s.levels.Resolve(learner.XP)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve level: %w", err)
	}

	stats := &LearnerStats{
		LearnerID:    learner.ID,
		Name:         learner.Name,
		Major:        learner.Major,
		XP:           learner.XP,
		Level:        level,
		Skills:       append([]string{}, learner.Skills...),
		Achievements: append([]models.Achievement{}, learner.Achievements...),
	}

	pathways, err := s.pathwayRepo.ListByLearner(learnerID)
	if err != nil {
		s.log.Warn().Err(err).Uint("learner_id", learnerID).Msg("Failed to get pathways")
	} else {
		stats.PathwaysEnrolled = len(pathways)
		for i := range pathways {
			done := pathways[i].CompletedCount()
			stats.MissionsCompleted += done
			stats.MissionsTotal += len(pathways[i].Missions)
			if done > 0 && done == len(pathways[i].Missions) {
				stats.PathwaysCompleted++
			}
		}
	}

	ahead, err := s.learnerRepo.CountAhead(learner)
	if err != nil {
		s.log.Warn().Err(err).Uint("learner_id", learnerID).Msg("Failed to get global rank")
	} else {
		stats.GlobalRank = int(ahead) + 1
	}

	majorRank, err := s.getMajorRank(learner)
	if err != nil {
		s.log.Warn().Err(err).Uint("learner_id", learnerID).Str("major", learner.Major).Msg("Failed to get major rank")
	} else {
		stats.MajorRank = majorRank
	}

	return stats, nil
}

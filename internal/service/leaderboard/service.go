// Package leaderboard provides XP rankings and learner statistics.
package leaderboard

import (
	"context"
	"fmt"

	prommetrics "github.com/iseven/vnu-connect-x/internal/metrics"
	"github.com/iseven/vnu-connect-x/internal/models"
	"github.com/iseven/vnu-connect-x/internal/progression"
	"github.com/iseven/vnu-connect-x/internal/repository"
	"github.com/iseven/vnu-connect-x/pkg/logger"
)

// DefaultLimit caps a leaderboard request that does not ask for a size.
const DefaultLimit = 10

// MaxLimit is the largest leaderboard a caller can request.
const MaxLimit = 100

// LearnerRepository interface for learner operations.
type LearnerRepository interface {
	GetByID(id uint) (*models.Learner, error)
	ListByXP(major string, limit int) ([]models.Learner, error)
	CountAhead(learner *models.Learner) (int64, error)
	Majors() ([]string, error)
}

// PathwayRepository interface for pathway operations.
type PathwayRepository interface {
	ListByLearner(learnerID uint) ([]models.Pathway, error)
}

// Entry represents a single entry in a leaderboard.
type Entry struct {
	Rank             int    `json:"rank"`
	LearnerID        uint   `json:"learner_id"`
	Name             string `json:"name"`
	Avatar           string `json:"avatar,omitempty"`
	Major            string `json:"major"`
	XP               int    `json:"xp"`
	Level            int    `json:"level"`
	LevelName        string `json:"level_name"`
	Progress         int    `json:"progress"`
	AchievementCount int    `json:"achievement_count"`
}

// Service handles leaderboard generation and learner statistics.
type Service struct {
	learnerRepo LearnerRepository
	pathwayRepo PathwayRepository
	levels      *progression.Table
	log         *logger.Logger
}

// NewService creates a new leaderboard service with concrete repository types.
func NewService(
	learnerRepo *repository.LearnerRepository,
	pathwayRepo *repository.PathwayRepository,
	log *logger.Logger,
) *Service {
	return NewServiceWithInterfaces(learnerRepo, pathwayRepo, nil, log)
}

// NewServiceWithInterfaces creates a new leaderboard service with interface dependencies (useful for testing).
// A nil table uses progression.DefaultTable.
func NewServiceWithInterfaces(
	learnerRepo LearnerRepository,
	pathwayRepo PathwayRepository,
	levels *progression.Table,
	log *logger.Logger,
) *Service {
	if levels == nil {
		levels = progression.DefaultTable
	}
	return &Service{
		learnerRepo: learnerRepo,
		pathwayRepo: pathwayRepo,
		levels:      levels,
		log:         log.Component("leaderboard"),
	}
}

// clampLimit applies DefaultLimit and MaxLimit.
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// GetLeaderboard returns learners ranked by XP, ties broken by name.
// An empty major ranks everyone.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetLeaderboard(ctx context.Context, major string, limit int) ([]Entry, error) {
	learners, err := s.learnerRepo.ListByXP(major, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get learners: %w", err)
	}

	entries := make([]Entry, 0, len(learners))
	for i := range learners {
		l := &learners[i]
		info, err := s.levels.Resolve(l.XP)
		if err != nil {
			// Stored xp should never be negative; keep the board usable.
			s.log.Warn().Err(err).Uint("learner_id", l.ID).Int("xp", l.XP).Msg("Skipping learner with invalid xp")
			continue
		}

		entries = append(entries, Entry{
			Rank:             len(entries) + 1,
			LearnerID:        l.ID,
			Name:             l.Name,
			Avatar:           l.Avatar,
			Major:            l.Major,
			XP:               l.XP,
			Level:            info.Level,
			LevelName:        info.Name,
			Progress:         info.Progress,
			AchievementCount: len(l.Achievements),
		})
	}

	return entries, nil
}

// GetLearnerRank returns the learner's global rank, 1 being the most XP.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetLearnerRank(ctx context.Context, learnerID uint) (int, error) {
	learner, err := s.learnerRepo.GetByID(learnerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get learner: %w", err)
	}
	ahead, err := s.learnerRepo.CountAhead(learner)
	if err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}

// getMajorRank returns the learner's rank among learners of the same major.
func (s *Service) getMajorRank(learner *models.Learner) (int, error) {
	if learner.Major == "" {
		return 0, fmt.Errorf("learner %d has no major", learner.ID)
	}

	board, err := s.learnerRepo.ListByXP(learner.Major, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to get major leaderboard: %w", err)
	}
	for i := range board {
		if board[i].ID == learner.ID {
			return i + 1, nil
		}
	}

	// Learner not found in leaderboard
	return 0, fmt.Errorf("learner %d not found in %s leaderboard", learner.ID, learner.Major)
}

// Majors lists the majors a leaderboard can be filtered by.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Majors(ctx context.Context) ([]string, error) {
	return s.learnerRepo.Majors()
}

// RefreshXPGauges publishes the XP of every learner and returns how many were published.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) RefreshXPGauges(ctx context.Context) (int, error) {
	learners, err := s.learnerRepo.ListByXP("", 0)
	if err != nil {
		return 0, fmt.Errorf("failed to get learners: %w", err)
	}
	for i := range learners {
		prommetrics.SetLearnerXP(learners[i].ID, learners[i].XP)
	}
	return len(learners), nil
}

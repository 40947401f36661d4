// Package achievements serves learner achievements and the badge catalogue.
package achievements

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	prommetrics "github.com/iseven/vnu-connect-x/internal/metrics"
	"github.com/iseven/vnu-connect-x/internal/models"
	"github.com/iseven/vnu-connect-x/internal/repository"
	"github.com/iseven/vnu-connect-x/pkg/logger"
)

// ErrEmptyTitle is returned when a badge lookup has no title.
var ErrEmptyTitle = errors.New("badge title is required")

// AchievementRepository interface for achievement operations.
type AchievementRepository interface {
	GetLearnerAchievements(learnerID uint) ([]models.Achievement, error)
	HasLearnerEarned(learnerID uint, title string) (bool, error)
	GetLearnersWithAchievement(title string) ([]models.Learner, error)
	GetHolderCounts() (map[string]int64, error)
	GetMissionBadges() ([]models.Achievement, error)
}

// BadgeInfo is a catalogue entry with its current number of holders.
type BadgeInfo struct {
	models.Achievement
	Holders int64 `json:"holders"`
}

// Holder is a learner holding a badge.
type Holder struct {
	LearnerID uint   `json:"learner_id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar,omitempty"`
	Major     string `json:"major,omitempty"`
}

// Service handles achievement queries and badge holder gauges.
type Service struct {
	repo AchievementRepository
	log  *logger.Logger
}

// NewService creates a new achievements service.
func NewService(repo *repository.AchievementRepository, log *logger.Logger) *Service {
	return NewServiceWithInterfaces(repo, log)
}

// NewServiceWithInterfaces creates a new achievements service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(repo AchievementRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log.Component("achievements")}
}

// GetLearnerAchievements retrieves a learner's achievements in the order earned.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetLearnerAchievements(ctx context.Context, learnerID uint) ([]models.Achievement, error) {
	return s.repo.GetLearnerAchievements(learnerID)
}

// HasEarned reports whether the learner holds the titled achievement.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) HasEarned(ctx context.Context, learnerID uint, title string) (bool, error) {
	return s.repo.HasLearnerEarned(learnerID, title)
}

// GetBadgeCatalog lists every badge a mission can award, in pathway order,
// followed by achievements held by learners that no mission awards (by title).
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetBadgeCatalog(ctx context.Context) ([]BadgeInfo, error) {
	badges, err := s.repo.GetMissionBadges()
	if err != nil {
		return nil, fmt.Errorf("failed to get mission badges: %w", err)
	}
	counts, err := s.repo.GetHolderCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to get holder counts: %w", err)
	}

	catalog := make([]BadgeInfo, 0, len(badges))
	listed := make(map[string]bool, len(badges))
	for _, b := range badges {
		listed[b.Title] = true
		catalog = append(catalog, BadgeInfo{Achievement: b, Holders: counts[b.Title]})
	}

	var extra []string
	for title := range counts {
		if !listed[title] {
			extra = append(extra, title)
		}
	}
	sort.Strings(extra)
	for _, title := range extra {
		catalog = append(catalog, BadgeInfo{Achievement: models.Achievement{Title: title}, Holders: counts[title]})
	}

	return catalog, nil
}

// GetBadgeHolders lists learners holding the titled badge, ordered by name.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetBadgeHolders(ctx context.Context, title string) ([]Holder, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	learners, err := s.repo.GetLearnersWithAchievement(title)
	if err != nil {
		return nil, fmt.Errorf("failed to get badge holders: %w", err)
	}

	holders := make([]Holder, 0, len(learners))
	for _, l := range learners {
		holders = append(holders, Holder{LearnerID: l.ID, Name: l.Name, Avatar: l.Avatar, Major: l.Major})
	}
	return holders, nil
}

// RefreshHolderGauges publishes the holder count of every held achievement.
// It returns the number of distinct titles published.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) RefreshHolderGauges(ctx context.Context) (int, error) {
	counts, err := s.repo.GetHolderCounts()
	if err != nil {
		return 0, fmt.Errorf("failed to get holder counts: %w", err)
	}
	for title, n := range counts {
		prommetrics.SetActiveBadgeHolders(title, int(n))
	}
	s.log.Debug().Int("badges", len(counts)).Msg("Badge holder gauges refreshed")
	return len(counts), nil
}

// BadgeAwarded updates the holder gauge for a freshly awarded badge.
func (s *Service) BadgeAwarded(ctx context.Context, learnerID uint, badge models.Achievement) {
	counts, err := s.repo.GetHolderCounts()
	if err != nil {
		s.log.Warn().Err(err).Str("badge", badge.Title).Msg("Failed to refresh badge holder gauge")
		return
	}
	prommetrics.SetActiveBadgeHolders(badge.Title, int(counts[badge.Title]))
	s.log.Debug().Uint("learner_id", learnerID).Str("badge", badge.Title).Int64("holders", counts[badge.Title]).Msg("Badge holder gauge updated")
}

package repository

import (
	"fmt"

	"github.com/iseven/vnu-connect-x/internal/models"
)

// AchievementRepository answers achievement and badge queries. Achievements are
// stored as a JSON list on each learner and badges on missions, so matching by
// title happens after loading.
type AchievementRepository struct {
	db *DB
}

// NewAchievementRepository creates a new achievement repository.
func NewAchievementRepository(db *DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// GetLearnerAchievements retrieves a learner's achievements in the order earned.
func (r *AchievementRepository) GetLearnerAchievements(learnerID uint) ([]models.Achievement, error) {
	var learner models.Learner
	if err := r.db.Select("id", "achievements").First(&learner, learnerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get achievements for learner %d: %w", learnerID, notFound(err))
	}
	return learner.Achievements, nil
}

// HasLearnerEarned checks if a learner holds an achievement with the given title.
func (r *AchievementRepository) HasLearnerEarned(learnerID uint, title string) (bool, error) {
	achievements, err := r.GetLearnerAchievements(learnerID)
	if err != nil {
		return false, err
	}
	for _, a := range achievements {
		if a.Title == title {
			return true, nil
		}
	}
	return false, nil
}

// GetLearnersWithAchievement retrieves every learner holding the title, ordered by name.
func (r *AchievementRepository) GetLearnersWithAchievement(title string) ([]models.Learner, error) {
	var learners []models.Learner
	if err := r.db.Order("name ASC").Find(&learners).Error; err != nil {
		return nil, fmt.Errorf("failed to list learners: %w", err)
	}

	holders := make([]models.Learner, 0)
	for i := range learners {
		if learners[i].HasAchievement(title) {
			holders = append(holders, learners[i])
		}
	}
	return holders, nil
}

// GetHolderCounts returns, for every achievement title held by anyone, the number of holders.
func (r *AchievementRepository) GetHolderCounts() (map[string]int64, error) {
	var learners []models.Learner
	if err := r.db.Select("id", "achievements").Find(&learners).Error; err != nil {
		return nil, fmt.Errorf("failed to list learner achievements: %w", err)
	}

	counts := make(map[string]int64)
	for _, l := range learners {
		for _, a := range l.Achievements {
			counts[a.Title]++
		}
	}
	return counts, nil
}

// GetMissionBadges returns the distinct badges attached to missions, first
// occurrence wins, in pathway then position order.
func (r *AchievementRepository) GetMissionBadges() ([]models.Achievement, error) {
	var missions []models.Mission
	err := r.db.
		Where("badge IS NOT NULL AND badge <> '' AND badge <> 'null'").
		Order("pathway_id ASC").
		Order("position ASC").
		Find(&missions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list mission badges: %w", err)
	}

	seen := make(map[string]bool)
	badges := make([]models.Achievement, 0)
	for _, m := range missions {
		if m.Badge == nil || seen[m.Badge.Title] {
			continue
		}
		seen[m.Badge.Title] = true
		badges = append(badges, *m.Badge)
	}
	return badges, nil
}

package fixtures

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/iseven/vnu-connect-x/internal/models"
	"github.com/iseven/vnu-connect-x/internal/repository"
	"github.com/iseven/vnu-connect-x/pkg/logger"
)

// SeedResult reports what Seed inserted.
type SeedResult struct {
	Skipped  bool
	Learners int
	Pathways int
	Projects int
	Mentors  int
}

// Seed inserts the fixture set in one transaction. A database that already
// holds learners is left untouched so persistent stores keep their progress.
func Seed(db *repository.DB, set *Set, log *logger.Logger) (*SeedResult, error) {
	var existing int64
	if err := db.Model(&models.Learner{}).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to count learners: %w", err)
	}
	if existing > 0 {
		log.Info().Int64("learners", existing).Msg("Database already seeded, skipping fixtures")
		return &SeedResult{Skipped: true}, nil
	}

	learners := set.LearnerModels()
	pathways := set.Enrollments()
	projects := set.ProjectModels()
	mentors := set.MentorModels()

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(learners) > 0 {
			if err := tx.Create(&learners).Error; err != nil {
				return fmt.Errorf("failed to seed learners: %w", err)
			}
		}
		for i := range pathways {
			if err := tx.Create(&pathways[i]).Error; err != nil {
				return fmt.Errorf("failed to seed pathway %s: %w", pathways[i].Key, err)
			}
		}
		if len(projects) > 0 {
			if err := tx.Create(&projects).Error; err != nil {
				return fmt.Errorf("failed to seed projects: %w", err)
			}
		}
		if len(mentors) > 0 {
			if err := tx.Create(&mentors).Error; err != nil {
				return fmt.Errorf("failed to seed mentors: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &SeedResult{
		Learners: len(learners),
		Pathways: len(pathways),
		Projects: len(projects),
		Mentors:  len(mentors),
	}

	log.Info().
		Int("learners", result.Learners).
		Int("pathways", result.Pathways).
		Int("projects", result.Projects).
		Int("mentors", result.Mentors).
		Msg("Seeded fixtures")

	return result, nil
}

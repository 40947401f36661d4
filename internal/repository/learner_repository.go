package repository

import (
	"fmt"

	"github.com/iseven/vnu-connect-x/internal/models"
)

// LearnerRepository handles learner-related database operations.
type LearnerRepository struct {
	db *DB
}

// NewLearnerRepository creates a new learner repository.
func NewLearnerRepository(db *DB) *LearnerRepository {
	return &LearnerRepository{db: db}
}

// Create creates a new learner.
func (r *LearnerRepository) Create(learner *models.Learner) error {
	if err := r.db.Create(learner).Error; err != nil {
		return fmt.Errorf("failed to create learner: %w", err)
	}
	return nil
}

// GetByID retrieves a learner by ID.
func (r *LearnerRepository) GetByID(id uint) (*models.Learner, error) {
	var learner models.Learner
	if err := r.db.First(&learner, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get learner by id %d: %w", id, notFound(err))
	}
	return &learner, nil
}

// GetByMSSV retrieves a learner by student number.
func (r *LearnerRepository) GetByMSSV(mssv string) (*models.Learner, error) {
	var learner models.Learner
	if err := r.db.Where("mssv = ?", mssv).First(&learner).Error; err != nil {
		return nil, fmt.Errorf("failed to get learner by mssv %s: %w", mssv, notFound(err))
	}
	return &learner, nil
}

// Update updates a learner.
func (r *LearnerRepository) Update(learner *models.Learner) error {
	if err := r.db.Save(learner).Error; err != nil {
		return fmt.Errorf("failed to update learner: %w", err)
	}
	return nil
}

// List retrieves learners, optionally restricted to one major, ordered by name.
func (r *LearnerRepository) List(major string) ([]models.Learner, error) {
	query := r.db.Model(&models.Learner{})

	if major != "" {
		query = query.Where("major = ?", major)
	}

	var learners []models.Learner
	if err := query.Order("name ASC").Find(&learners).Error; err != nil {
		return nil, fmt.Errorf("failed to list learners: %w", err)
	}
	return learners, nil
}

// ListByXP retrieves learners ordered by XP descending, ties broken by name.
// A limit of 0 or less returns every learner.
func (r *LearnerRepository) ListByXP(major string, limit int) ([]models.Learner, error) {
	query := r.db.Model(&models.Learner{})

	if major != "" {
		query = query.Where("major = ?", major)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var learners []models.Learner
	if err := query.Order("xp DESC").Order("name ASC").Find(&learners).Error; err != nil {
		return nil, fmt.Errorf("failed to list learners by xp: %w", err)
	}
	return learners, nil
}

// CountAhead returns how many learners rank above the given learner:
// more XP, or equal XP and a name sorting first.
func (r *LearnerRepository) CountAhead(learner *models.Learner) (int64, error) {
	var count int64
	err := r.db.Model(&models.Learner{}).
		Where("xp > ? OR (xp = ? AND name < ?)", learner.XP, learner.XP, learner.Name).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count learners ahead of %d: %w", learner.ID, err)
	}
	return count, nil
}

// Majors returns the distinct majors in alphabetical order.
func (r *LearnerRepository) Majors() ([]string, error) {
	var majors []string
	err := r.db.Model(&models.Learner{}).
		Distinct("major").
		Where("major <> ''").
		Order("major ASC").
		Pluck("major", &majors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list majors: %w", err)
	}
	return majors, nil
}

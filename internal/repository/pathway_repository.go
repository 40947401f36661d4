package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/iseven/vnu-connect-x/internal/models"
)

// PathwayRepository handles pathway and mission persistence.
type PathwayRepository struct {
	db *DB
}

// NewPathwayRepository creates a new pathway repository.
func NewPathwayRepository(db *DB) *PathwayRepository {
	return &PathwayRepository{db: db}
}

func orderedMissions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create creates a pathway together with its missions.
func (r *PathwayRepository) Create(pathway *models.Pathway) error {
	if err := r.db.Create(pathway).Error; err != nil {
		return fmt.Errorf("failed to create pathway %s: %w", pathway.Key, err)
	}
	return nil
}

// GetByID retrieves a pathway with its missions ordered by position.
func (r *PathwayRepository) GetByID(id uint) (*models.Pathway, error) {
	var pathway models.Pathway
	if err := r.db.Preload("Missions", orderedMissions).First(&pathway, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get pathway by id %d: %w", id, notFound(err))
	}
	return &pathway, nil
}

// GetByLearnerAndKey retrieves the learner's copy of a pathway template.
func (r *PathwayRepository) GetByLearnerAndKey(learnerID uint, key string) (*models.Pathway, error) {
	var pathway models.Pathway
	err := r.db.Preload("Missions", orderedMissions).
		Where("learner_id = ? AND pathway_key = ?", learnerID, key).
		First(&pathway).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pathway %s for learner %d: %w", key, learnerID, notFound(err))
	}
	return &pathway, nil
}

// ListByLearner retrieves every pathway owned by a learner, in creation order.
func (r *PathwayRepository) ListByLearner(learnerID uint) ([]models.Pathway, error) {
	var pathways []models.Pathway
	err := r.db.Preload("Missions", orderedMissions).
		Where("learner_id = ?", learnerID).
		Order("id ASC").
		Find(&pathways).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pathways for learner %d: %w", learnerID, err)
	}
	return pathways, nil
}

// ListAll retrieves every pathway of every learner.
func (r *PathwayRepository) ListAll() ([]models.Pathway, error) {
	var pathways []models.Pathway
	if err := r.db.Preload("Missions", orderedMissions).Order("id ASC").Find(&pathways).Error; err != nil {
		return nil, fmt.Errorf("failed to list pathways: %w", err)
	}
	return pathways, nil
}

// UpdateMission saves a single mission.
func (r *PathwayRepository) UpdateMission(mission *models.Mission) error {
	if err := r.db.Save(mission).Error; err != nil {
		return fmt.Errorf("failed to update mission %d: %w", mission.ID, err)
	}
	return nil
}

// SaveProgress writes the learner and every mission of the pathway in one transaction.
func (r *PathwayRepository) SaveProgress(learner *models.Learner, pathway *models.Pathway) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(learner).Error; err != nil {
			return fmt.Errorf("failed to save learner %d: %w", learner.ID, err)
		}
		for i := range pathway.Missions {
			if err := tx.Save(&pathway.Missions[i]).Error; err != nil {
				return fmt.Errorf("failed to save mission %d: %w", pathway.Missions[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// SaveMissions writes every mission of the pathway in one transaction.
func (r *PathwayRepository) SaveMissions(pathway *models.Pathway) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for i := range pathway.Missions {
			if err := tx.Save(&pathway.Missions[i]).Error; err != nil {
				return fmt.Errorf("failed to save mission %d: %w", pathway.Missions[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save missions: %w", err)
	}
	return nil
}

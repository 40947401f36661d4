package repository

import (
	"fmt"

	"github.com/iseven/vnu-connect-x/internal/models"
)

// CatalogRepository reads and seeds projects and mentors.
type CatalogRepository struct {
	db *DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// CreateProjects inserts projects in one batch.
func (r *CatalogRepository) CreateProjects(projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	if err := r.db.Create(&projects).Error; err != nil {
		return fmt.Errorf("failed to create projects: %w", err)
	}
	return nil
}

// CreateMentors inserts mentors in one batch.
func (r *CatalogRepository) CreateMentors(mentors []models.Mentor) error {
	if len(mentors) == 0 {
		return nil
	}
	if err := r.db.Create(&mentors).Error; err != nil {
		return fmt.Errorf("failed to create mentors: %w", err)
	}
	return nil
}

// Projects returns every project ordered by ID.
func (r *CatalogRepository) Projects() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Order("id ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Mentors returns every mentor ordered by ID.
func (r *CatalogRepository) Mentors() ([]models.Mentor, error) {
	var mentors []models.Mentor
	if err := r.db.Order("id ASC").Find(&mentors).Error; err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}
	return mentors, nil
}

// GetProject retrieves a project by ID.
func (r *CatalogRepository) GetProject(id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get project by id %d: %w", id, notFound(err))
	}
	return &project, nil
}

// GetMentor retrieves a mentor by ID.
func (r *CatalogRepository) GetMentor(id uint) (*models.Mentor, error) {
	var mentor models.Mentor
	if err := r.db.First(&mentor, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get mentor by id %d: %w", id, notFound(err))
	}
	return &mentor, nil
}

// Package catalog serves project and mentor searches over the seeded catalog.
package catalog

import (
	"context"
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	catfilter "github.com/iseven/vnu-connect-x/internal/catalog"
	prommetrics "github.com/iseven/vnu-connect-x/internal/metrics"
	"github.com/iseven/vnu-connect-x/internal/models"
	"github.com/iseven/vnu-connect-x/internal/repository"
	"github.com/iseven/vnu-connect-x/pkg/logger"
)

// Repository interface for catalog reads.
type Repository interface {
	Projects() ([]models.Project, error)
	Mentors() ([]models.Mentor, error)
	GetProject(id uint) (*models.Project, error)
	GetMentor(id uint) (*models.Mentor, error)
}

// Service filters the catalog and memoises results per normalised filter.
// The catalog is read-only after seeding; call Invalidate after reseeding.
type Service struct {
	repo     Repository
	projects *lru.Cache[catfilter.ProjectFilter, []models.Project]
	mentors  *lru.Cache[catfilter.MentorFilter, []models.Mentor]
	log      *logger.Logger
}

// NewService creates a new catalog service. A cacheSize of 0 disables memoisation.
func NewService(repo *repository.CatalogRepository, cacheSize int, log *logger.Logger) (*Service, error) {
	return NewServiceWithInterfaces(repo, cacheSize, log)
}

// NewServiceWithInterfaces creates a new catalog service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(repo Repository, cacheSize int, log *logger.Logger) (*Service, error) {
	s := &Service{repo: repo, log: log.Component("catalog")}
	if cacheSize <= 0 {
		return s, nil
	}

	var err error
	if s.projects, err = lru.New[catfilter.ProjectFilter, []models.Project](cacheSize); err != nil {
		return nil, fmt.Errorf("failed to create project cache: %w", err)
	}
	if s.mentors, err = lru.New[catfilter.MentorFilter, []models.Mentor](cacheSize); err != nil {
		return nil, fmt.Errorf("failed to create mentor cache: %w", err)
	}
	return s, nil
}

// SearchProjects returns the projects matching f, in ID order.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) SearchProjects(ctx context.Context, f catfilter.ProjectFilter) ([]models.Project, error) {
	key := f.Normalized()
	if s.projects != nil {
		if hit, ok := s.projects.Get(key); ok {
			prommetrics.RecordCatalogSearch("projects", true)
			return slices.Clone(hit), nil
		}
	}

	all, err := s.repo.Projects()
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	result := catfilter.FilterProjects(all, key)

	if s.projects != nil {
		s.projects.Add(key, result)
	}
	prommetrics.RecordCatalogSearch("projects", false)
	s.log.Debug().Str("query", key.Query).Int("results", len(result)).Msg("Project search")

	return slices.Clone(result), nil
}

// SearchMentors returns the mentors matching f, in ID order.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) SearchMentors(ctx context.Context, f catfilter.MentorFilter) ([]models.Mentor, error) {
	key := f.Normalized()
	if s.mentors != nil {
		if hit, ok := s.mentors.Get(key); ok {
			prommetrics.RecordCatalogSearch("mentors", true)
			return slices.Clone(hit), nil
		}
	}

	all, err := s.repo.Mentors()
	if err != nil {
		return nil, fmt.Errorf("failed to load mentors: %w", err)
	}
	result := catfilter.FilterMentors(all, key)

	if s.mentors != nil {
		s.mentors.Add(key, result)
	}
	prommetrics.RecordCatalogSearch("mentors", false)
	s.log.Debug().Str("query", key.Query).Int("results", len(result)).Msg("Mentor search")

	return slices.Clone(result), nil
}

// GetProject retrieves a project by ID.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	return s.repo.GetProject(id)
}

// GetMentor retrieves a mentor by ID.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetMentor(ctx context.Context, id uint) (*models.Mentor, error) {
	return s.repo.GetMentor(id)
}

// Invalidate drops every memoised result.
func (s *Service) Invalidate() {
	if s.projects != nil {
		s.projects.Purge()
	}
	if s.mentors != nil {
		s.mentors.Purge()
	}
}

package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catfilter "github.com/iseven/vnu-connect-x/internal/catalog"
	"github.com/iseven/vnu-connect-x/internal/fixtures"
	prommetrics "github.com/iseven/vnu-connect-x/internal/metrics"
	"github.com/iseven/vnu-connect-x/internal/models"
	"github.com/iseven/vnu-connect-x/pkg/logger"
)

// countingRepo serves fixture data and counts loads.
type countingRepo struct {
	projects     []models.Project
	mentors      []models.Mentor
	projectLoads int
	mentorLoads  int
	err          error
}

func newCountingRepo(t *testing.T) *countingRepo {
	t.Helper()

	set, err := fixtures.Load()
	require.NoError(t, err)
	return &countingRepo{projects: set.ProjectModels(), mentors: set.MentorModels()}
}

func (r *countingRepo) Projects() ([]models.Project, error) {
	r.projectLoads++
	return r.projects, r.err
}

func (r *countingRepo) Mentors() ([]models.Mentor, error) {
	r.mentorLoads++
	return r.mentors, r.err
}

func (r *countingRepo) GetProject(id uint) (*models.Project, error) {
	for i := range r.projects {
		if r.projects[i].ID == id {
			return &r.projects[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *countingRepo) GetMentor(id uint) (*models.Mentor, error) {
	for i := range r.mentors {
		if r.mentors[i].ID == id {
			return &r.mentors[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func TestSearchProjects_Memoised(t *testing.T) {
	prommetrics.CatalogSearchesTotal.Reset()

	repo := newCountingRepo(t)
	svc, err := NewServiceWithInterfaces(repo, 16, logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	first, err := svc.SearchProjects(ctx, catfilter.ProjectFilter{Query: "React", Domain: "Tech"})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, uint(2), first[0].ID)

	// Same filter after normalisation hits the cache.
	second, err := svc.SearchProjects(ctx, catfilter.ProjectFilter{Query: " react ", Domain: "tech", Status: catfilter.All})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.projectLoads)

	assert.Equal(t, float64(1), testutil.ToFloat64(prommetrics.CatalogSearchesTotal.WithLabelValues("projects", "hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(prommetrics.CatalogSearchesTotal.WithLabelValues("projects", "miss")))

	// Mutating a result does not poison the cache.
	second[0] = models.Project{}
	third, err := svc.SearchProjects(ctx, catfilter.ProjectFilter{Query: "react", Domain: "Tech"})
	require.NoError(t, err)
	assert.Equal(t, uint(2), third[0].ID)

	svc.Invalidate()
	_, err = svc.SearchProjects(ctx, catfilter.ProjectFilter{Query: "react", Domain: "Tech"})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.projectLoads)
}

func TestSearchMentors(t *testing.T) {
	repo := newCountingRepo(t)
	svc, err := NewServiceWithInterfaces(repo, 16, logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	mentors, err := svc.SearchMentors(ctx, catfilter.MentorFilter{Field: catfilter.AllFields, Query: "sql"})
	require.NoError(t, err)
	require.Len(t, mentors, 1)
	assert.Equal(t, "Tiki", mentors[0].Company)

	_, err = svc.SearchMentors(ctx, catfilter.MentorFilter{Query: "SQL"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.mentorLoads)
}

func TestSearch_NoCache(t *testing.T) {
	repo := newCountingRepo(t)
	svc, err := NewServiceWithInterfaces(repo, 0, logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.SearchProjects(ctx, catfilter.ProjectFilter{})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, repo.projectLoads)
	svc.Invalidate()
}

func TestSearch_RepositoryError(t *testing.T) {
	repo := newCountingRepo(t)
	repo.err = errors.New("db down")
	svc, err := NewServiceWithInterfaces(repo, 4, logger.Nop())
	require.NoError(t, err)

	_, err = svc.SearchProjects(context.Background(), catfilter.ProjectFilter{})
	assert.Error(t, err)
	_, err = svc.SearchMentors(context.Background(), catfilter.MentorFilter{})
	assert.Error(t, err)
}

func TestGetProjectAndMentor(t *testing.T) {
	svc, err := NewServiceWithInterfaces(newCountingRepo(t), 4, logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	p, err := svc.GetProject(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, models.DomainBusiness, p.Domain)

	_, err = svc.GetMentor(ctx, 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

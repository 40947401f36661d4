package achievements

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iseven/vnu-connect-x/internal/fixtures"
	prommetrics "github.com/iseven/vnu-connect-x/internal/metrics"
	"github.com/iseven/vnu-connect-x/internal/models"
	"github.com/iseven/vnu-connect-x/internal/repository"
	"github.com/iseven/vnu-connect-x/pkg/logger"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	db, err := repository.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate())

	set, err := fixtures.Load()
	require.NoError(t, err)
	_, err = fixtures.Seed(db, set, logger.Nop())
	require.NoError(t, err)

	return NewService(repository.NewAchievementRepository(db), logger.Nop())
}

func titles(badges []BadgeInfo) []string {
	out := make([]string, 0, len(badges))
	for _, b := range badges {
		out = append(out, b.Title)
	}
	return out
}

func TestGetBadgeCatalog(t *testing.T) {
	svc := setupService(t)

	catalog, err := svc.GetBadgeCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"Connector", "Spec Writer", "PM Fresher", "Data Explorer", "Communicator", "First Steps"},
		titles(catalog))

	byTitle := make(map[string]BadgeInfo)
	for _, b := range catalog {
		byTitle[b.Title] = b
	}
	assert.Equal(t, int64(1), byTitle["Connector"].Holders)
	assert.Equal(t, int64(1), byTitle["Data Explorer"].Holders)
	assert.Equal(t, int64(0), byTitle["Spec Writer"].Holders)
	assert.NotEmpty(t, byTitle["Connector"].Icon)
}

func TestGetBadgeHolders(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	holders, err := svc.GetBadgeHolders(ctx, " Data Explorer ")
	require.NoError(t, err)
	require.Len(t, holders, 1)
	assert.Equal(t, "Binh Tran", holders[0].Name)

	holders, err = svc.GetBadgeHolders(ctx, "Spec Writer")
	require.NoError(t, err)
	assert.Empty(t, holders)

	_, err = svc.GetBadgeHolders(ctx, "  ")
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestGetLearnerAchievements(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	achievements, err := svc.GetLearnerAchievements(ctx, 1)
	require.NoError(t, err)
	require.Len(t, achievements, 2)
	assert.Equal(t, "First Steps", achievements[0].Title)

	earned, err := svc.HasEarned(ctx, 1, "Connector")
	require.NoError(t, err)
	assert.True(t, earned)

	_, err = svc.GetLearnerAchievements(ctx, 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRefreshHolderGauges(t *testing.T) {
	prommetrics.ActiveBadgeHolders.Reset()
	svc := setupService(t)

	n, err := svc.RefreshHolderGauges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, float64(1), testutil.ToFloat64(prommetrics.ActiveBadgeHolders.WithLabelValues("Connector")))
}

type stubRepo struct {
	AchievementRepository
	counts map[string]int64
	err    error
}

func (s stubRepo) GetHolderCounts() (map[string]int64, error) {
	return s.counts, s.err
}

func TestBadgeAwarded(t *testing.T) {
	prommetrics.ActiveBadgeHolders.Reset()

	svc := NewServiceWithInterfaces(stubRepo{counts: map[string]int64{"Spec Writer": 3}}, logger.Nop())
	svc.BadgeAwarded(context.Background(), 1, models.Achievement{Title: "Spec Writer"})
	assert.Equal(t, float64(3), testutil.ToFloat64(prommetrics.ActiveBadgeHolders.WithLabelValues("Spec Writer")))

	// A failing repository leaves the gauge alone.
	failing := NewServiceWithInterfaces(stubRepo{err: errors.New("db down")}, logger.Nop())
	failing.BadgeAwarded(context.Background(), 1, models.Achievement{Title: "Spec Writer"})
	assert.Equal(t, float64(3), testutil.ToFloat64(prommetrics.ActiveBadgeHolders.WithLabelValues("Spec Writer")))

	_, err := failing.RefreshHolderGauges(context.Background())
	assert.Error(t, err)
}

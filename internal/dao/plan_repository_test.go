package dao

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/domain"
	"github.com/haierkeys/media-share-backup-service/pkg/recurrence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPlan(t *testing.T, repo domain.PlanRepository) *domain.Plan {
	t.Helper()

	plan, err := repo.Create(context.Background(), &domain.Plan{
		Name:     "camera roll",
		ServerID: 1,
		Source:   domain.Source{Type: domain.SourceTypeAlbum, AlbumID: "camera"},
		Recurrence: recurrence.Settings{
			Frequency:   recurrence.FrequencyDaily,
			TimeMinutes: 120,
		},
		IsEnabled:   true,
		NextRunTime: time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)
	require.NotZero(t, plan.ID)
	return plan
}

func TestPlanUpdateScheduleAdvancesNextRun(t *testing.T) {
	d := newTestDao(t)
	repo := NewPlanRepository(d)
	ctx := context.Background()

	plan := createTestPlan(t, repo)

	next := time.Now().Add(24 * time.Hour).Unix()
	last := time.Now().Unix()
	require.NoError(t, repo.UpdateSchedule(ctx, plan.ID, next, last))

	got, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, next, got.NextRunTime)
	assert.Equal(t, last, got.LastRunTime)

	// 推进后不再出现在到期列表里
	due, err := repo.ListDue(ctx, time.Now().Unix())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestPlanDeleteHidesFromQueries(t *testing.T) {
	d := newTestDao(t)
	repo := NewPlanRepository(d)
	ctx := context.Background()

	plan := createTestPlan(t, repo)
	require.NoError(t, repo.Delete(ctx, plan.ID))

	got, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	plans, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

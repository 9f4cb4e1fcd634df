package dao

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFinalizeOnlyOnce(t *testing.T) {
	d := newTestDao(t)
	repo := NewRunRepository(d)
	ctx := context.Background()

	run, err := repo.Create(ctx, &domain.Run{
		PlanID:    1,
		Status:    domain.RunStatusRunning,
		Trigger:   domain.RunTriggerManual,
		StartedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NotZero(t, run.ID)

	run.Status = domain.RunStatusSuccess
	run.TotalCount = 5
	run.UploadedCount = 5
	run.FinishedAt = time.Now()
	require.NoError(t, repo.Finalize(ctx, run))

	// 二次终结不会覆盖已有终态
	run.Status = domain.RunStatusFailed
	run.UploadedCount = 0
	require.NoError(t, repo.Finalize(ctx, run))

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusSuccess, got.Status)
	assert.Equal(t, 5, got.UploadedCount)
}

func TestRunListFiltersByPlan(t *testing.T) {
	d := newTestDao(t)
	repo := NewRunRepository(d)
	ctx := context.Background()

	for _, planID := range []int64{1, 1, 2} {
		_, err := repo.Create(ctx, &domain.Run{
			PlanID:    planID,
			Status:    domain.RunStatusRunning,
			Trigger:   domain.RunTriggerScheduled,
			StartedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	runs, err := repo.List(ctx, 1, 1, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	count, err := repo.ListCount(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

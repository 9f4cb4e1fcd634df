package dao

import (
	"context"
	"fmt"
	"testing"

	"github.com/haierkeys/media-share-backup-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupRecordCreateAndGet(t *testing.T) {
	d := newTestDao(t)
	repo := NewBackupRecordRepository(d)
	ctx := context.Background()

	err := repo.Create(ctx, &domain.BackupRecord{
		PlanID:     1,
		MediaID:    "media-001",
		RunID:      10,
		RemotePath: "2024/06/05/photo.jpg",
		SizeBytes:  2048,
	})
	require.NoError(t, err)

	got, err := repo.GetByPlanAndMedia(ctx, 1, "media-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024/06/05/photo.jpg", got.RemotePath)
	assert.Equal(t, int64(2048), got.SizeBytes)

	// 不存在时返回 nil 而非错误
	missing, err := repo.GetByPlanAndMedia(ctx, 1, "media-404")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBackupRecordDuplicateRejected(t *testing.T) {
	d := newTestDao(t)
	repo := NewBackupRecordRepository(d)
	ctx := context.Background()

	record := &domain.BackupRecord{PlanID: 1, MediaID: "media-001", RunID: 10}
	require.NoError(t, repo.Create(ctx, record))

	// (planId, mediaId) 唯一约束兜底
	err := repo.Create(ctx, &domain.BackupRecord{PlanID: 1, MediaID: "media-001", RunID: 11})
	assert.Error(t, err)

	// 其他计划下同一媒体不受影响
	err = repo.Create(ctx, &domain.BackupRecord{PlanID: 2, MediaID: "media-001", RunID: 12})
	assert.NoError(t, err)
}

func TestExistingMediaIDsEmptyInput(t *testing.T) {
	d := newTestDao(t)
	repo := NewBackupRecordRepository(d)

	existing, err := repo.ExistingMediaIDs(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Empty(t, existing)
}

func TestExistingMediaIDsChunked(t *testing.T) {
	d := newTestDao(t)
	repo := NewBackupRecordRepository(d)
	ctx := context.Background()

	// 写入超过单批上限的记录，批量查询需要分批执行
	total := lookupChunkSize + 101
	var lookup []string
	for i := 0; i < total; i++ {
		id := fmt.Sprintf("media-%04d", i)
		lookup = append(lookup, id)
		if i%2 == 0 {
			require.NoError(t, repo.Create(ctx, &domain.BackupRecord{PlanID: 1, MediaID: id, RunID: 1}))
		}
	}

	existing, err := repo.ExistingMediaIDs(ctx, 1, lookup)
	require.NoError(t, err)
	assert.Len(t, existing, (total+1)/2)

	_, evenFound := existing["media-0000"]
	_, oddFound := existing["media-0001"]
	assert.True(t, evenFound)
	assert.False(t, oddFound)
}

func TestChunkStrings(t *testing.T) {
	var ids []string
	for i := 0; i < 1001; i++ {
		ids = append(ids, fmt.Sprintf("id-%d", i))
	}

	chunks := chunkStrings(ids, 900)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 900)
	assert.Len(t, chunks[1], 101)

	assert.Nil(t, chunkStrings(nil, 900))
}

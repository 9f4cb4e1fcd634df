package dao

import (
	"context"
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/domain"
	"github.com/haierkeys/media-share-backup-service/internal/model"
	"github.com/haierkeys/media-share-backup-service/pkg/timex"

	"gorm.io/gorm"
)

// lookupChunkSize 批量 IN 查询的单批上限
// SQLite 变量数量默认上限 999，留出余量
const lookupChunkSize = 900

// backupRecordRepository 实现 domain.BackupRecordRepository 接口
type backupRecordRepository struct {
	dao *Dao
}

// NewBackupRecordRepository 创建 BackupRecordRepository 实例
func NewBackupRecordRepository(dao *Dao) domain.BackupRecordRepository {
	return &backupRecordRepository{dao: dao}
}

func (r *backupRecordRepository) record() *gorm.DB {
	return r.dao.useModel("BackupRecord")
}

func (r *backupRecordRepository) toDomain(m *model.BackupRecord) *domain.BackupRecord {
	if m == nil {
		return nil
	}
	return &domain.BackupRecord{
		ID:         m.ID,
		PlanID:     m.PlanID,
		MediaID:    m.MediaID,
		RunID:      m.RunID,
		RemotePath: m.RemotePath,
		SizeBytes:  m.SizeBytes,
		CreatedAt:  time.Time(m.CreatedAt),
	}
}

// Create 创建记录，(planId, mediaId) 唯一约束冲突时返回错误
func (r *backupRecordRepository) Create(ctx context.Context, record *domain.BackupRecord) error {
	m := &model.BackupRecord{
		PlanID:     record.PlanID,
		MediaID:    record.MediaID,
		RunID:      record.RunID,
		RemotePath: record.RemotePath,
		SizeBytes:  record.SizeBytes,
		CreatedAt:  timex.Now(),
	}
	return r.record().WithContext(ctx).Create(m).Error
}

// GetByPlanAndMedia 查询单条记录，不存在时返回 (nil, nil)
func (r *backupRecordRepository) GetByPlanAndMedia(ctx context.Context, planID int64, mediaID string) (*domain.BackupRecord, error) {
	var m model.BackupRecord
	err := r.record().WithContext(ctx).
		Where("plan_id = ? AND media_id = ?", planID, mediaID).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

// ExistingMediaIDs 批量查询已备份的媒体ID集合
// 入参为空时不发起查询，超过单批上限时分批执行
func (r *backupRecordRepository) ExistingMediaIDs(ctx context.Context, planID int64, mediaIDs []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(mediaIDs) == 0 {
		return existing, nil
	}

	for _, chunk := range chunkStrings(mediaIDs, lookupChunkSize) {
		var found []string
		err := r.record().WithContext(ctx).
			Model(&model.BackupRecord{}).
			Where("plan_id = ? AND media_id IN ?", planID, chunk).
			Pluck("media_id", &found).Error
		if err != nil {
			return nil, err
		}
		for _, id := range found {
			existing[id] = struct{}{}
		}
	}
	return existing, nil
}

// CountByPlan 获取计划的累计备份数量
func (r *backupRecordRepository) CountByPlan(ctx context.Context, planID int64) (int64, error) {
	var count int64
	err := r.record().WithContext(ctx).
		Model(&model.BackupRecord{}).
		Where("plan_id = ?", planID).
		Count(&count).Error
	return count, err
}

// chunkStrings 将切片按 size 分批
func chunkStrings(ids []string, size int) [][]string {
	if size <= 0 {
		return [][]string{ids}
	}
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

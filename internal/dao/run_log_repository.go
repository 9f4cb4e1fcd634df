package dao

import (
	"context"
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/domain"
	"github.com/haierkeys/media-share-backup-service/internal/model"
	"github.com/haierkeys/media-share-backup-service/pkg/timex"

	"gorm.io/gorm"
)

// runLogRepository 实现 domain.RunLogRepository 接口
type runLogRepository struct {
	dao *Dao
}

// NewRunLogRepository 创建 RunLogRepository 实例
func NewRunLogRepository(dao *Dao) domain.RunLogRepository {
	return &runLogRepository{dao: dao}
}

func (r *runLogRepository) runLog() *gorm.DB {
	return r.dao.useModel("RunLog")
}

// Append 追加一条运行日志
func (r *runLogRepository) Append(ctx context.Context, log *domain.RunLog) error {
	m := &model.RunLog{
		RunID:     log.RunID,
		Level:     string(log.Level),
		Message:   log.Message,
		Category:  log.Category,
		MediaID:   log.MediaID,
		CreatedAt: timex.Now(),
	}
	return r.runLog().WithContext(ctx).Create(m).Error
}

// ListByRunID 获取运行的全部日志，按写入顺序
func (r *runLogRepository) ListByRunID(ctx context.Context, runID int64) ([]*domain.RunLog, error) {
	var ms []*model.RunLog
	err := r.runLog().WithContext(ctx).
		Where("run_id = ?", runID).
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	logs := make([]*domain.RunLog, 0, len(ms))
	for _, m := range ms {
		logs = append(logs, &domain.RunLog{
			ID:        m.ID,
			RunID:     m.RunID,
			Level:     domain.RunLogLevel(m.Level),
			Message:   m.Message,
			Category:  m.Category,
			MediaID:   m.MediaID,
			CreatedAt: time.Time(m.CreatedAt),
		})
	}
	return logs, nil
}

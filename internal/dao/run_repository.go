package dao

import (
	"context"
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/domain"
	"github.com/haierkeys/media-share-backup-service/internal/model"
	"github.com/haierkeys/media-share-backup-service/pkg/app"
	"github.com/haierkeys/media-share-backup-service/pkg/timex"

	"gorm.io/gorm"
)

// runRepository 实现 domain.RunRepository 接口
type runRepository struct {
	dao *Dao
}

// NewRunRepository 创建 RunRepository 实例
func NewRunRepository(dao *Dao) domain.RunRepository {
	return &runRepository{dao: dao}
}

func (r *runRepository) run() *gorm.DB {
	return r.dao.useModel("Run")
}

func (r *runRepository) toDomain(m *model.Run) *domain.Run {
	if m == nil {
		return nil
	}
	return &domain.Run{
		ID:            m.ID,
		PlanID:        m.PlanID,
		Status:        domain.RunStatus(m.Status),
		Trigger:       domain.RunTrigger(m.Trigger),
		TotalCount:    m.TotalCount,
		UploadedCount: m.UploadedCount,
		SkippedCount:  m.SkippedCount,
		FailedCount:   m.FailedCount,
		BytesUploaded: m.BytesUploaded,
		ErrorSummary:  m.ErrorSummary,
		ErrorCategory: m.ErrorCategory,
		StartedAt:     time.Time(m.StartedAt),
		FinishedAt:    time.Time(m.FinishedAt),
	}
}

// GetByID 根据ID获取运行
func (r *runRepository) GetByID(ctx context.Context, id int64) (*domain.Run, error) {
	var m model.Run
	err := r.run().WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建运行
func (r *runRepository) Create(ctx context.Context, run *domain.Run) (*domain.Run, error) {
	m := &model.Run{
		PlanID:    run.PlanID,
		Status:    string(run.Status),
		Trigger:   string(run.Trigger),
		StartedAt: timex.Time(run.StartedAt),
	}
	if err := r.run().WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// Finalize 写入终态和最终计数
// 条件限定 RUNNING 状态，重复终结不生效
func (r *runRepository) Finalize(ctx context.Context, run *domain.Run) error {
	return r.run().WithContext(ctx).
		Model(&model.Run{}).
		Where("id = ? AND status = ?", run.ID, string(domain.RunStatusRunning)).
		Updates(map[string]interface{}{
			"status":         string(run.Status),
			"total_count":    run.TotalCount,
			"uploaded_count": run.UploadedCount,
			"skipped_count":  run.SkippedCount,
			"failed_count":   run.FailedCount,
			"bytes_uploaded": run.BytesUploaded,
			"error_summary":  run.ErrorSummary,
			"error_category": run.ErrorCategory,
			"finished_at":    timex.Time(run.FinishedAt),
		}).Error
}

// List 分页获取运行列表，planID 为 0 时不过滤计划
func (r *runRepository) List(ctx context.Context, planID int64, page, pageSize int) ([]*domain.Run, error) {
	q := r.run().WithContext(ctx)
	if planID > 0 {
		q = q.Where("plan_id = ?", planID)
	}

	var ms []*model.Run
	err := q.Order("id DESC").
		Offset(app.GetPageOffset(page, pageSize)).
		Limit(pageSize).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	runs := make([]*domain.Run, 0, len(ms))
	for _, m := range ms {
		runs = append(runs, r.toDomain(m))
	}
	return runs, nil
}

// ListCount 获取运行数量
func (r *runRepository) ListCount(ctx context.Context, planID int64) (int64, error) {
	q := r.run().WithContext(ctx).Model(&model.Run{})
	if planID > 0 {
		q = q.Where("plan_id = ?", planID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

// ListByStatus 获取指定状态的运行
func (r *runRepository) ListByStatus(ctx context.Context, status domain.RunStatus) ([]*domain.Run, error) {
	var ms []*model.Run
	err := r.run().WithContext(ctx).
		Where("status = ?", string(status)).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	runs := make([]*domain.Run, 0, len(ms))
	for _, m := range ms {
		runs = append(runs, r.toDomain(m))
	}
	return runs, nil
}

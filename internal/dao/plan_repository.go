package dao

import (
	"context"
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/domain"
	"github.com/haierkeys/media-share-backup-service/internal/model"
	"github.com/haierkeys/media-share-backup-service/pkg/convert"
	"github.com/haierkeys/media-share-backup-service/pkg/recurrence"
	"github.com/haierkeys/media-share-backup-service/pkg/timex"

	"gorm.io/gorm"
)

// planRepository 实现 domain.PlanRepository 接口
type planRepository struct {
	dao *Dao
}

// NewPlanRepository 创建 PlanRepository 实例
func NewPlanRepository(dao *Dao) domain.PlanRepository {
	return &planRepository{dao: dao}
}

func (r *planRepository) plan() *gorm.DB {
	return r.dao.useModel("Plan")
}

// toDomain 将数据库模型转换为领域模型
func (r *planRepository) toDomain(m *model.Plan) *domain.Plan {
	if m == nil {
		return nil
	}
	return &domain.Plan{
		ID:       m.ID,
		Name:     m.Name,
		ServerID: m.ServerID,
		Source: domain.Source{
			Type:    domain.SourceType(m.SourceType),
			AlbumID: m.SourceAlbumID,
			Path:    m.SourcePath,
		},
		DirTemplate:  m.DirTemplate,
		FileTemplate: m.FileTemplate,
		Recurrence: recurrence.Settings{
			Frequency:     recurrence.Frequency(m.Frequency),
			TimeMinutes:   m.TimeMinutes,
			WeekdayMask:   m.WeekdayMask,
			DayOfMonth:    m.DayOfMonth,
			IntervalHours: m.IntervalHours,
			CronExpr:      m.CronExpr,
		},
		IsEnabled:   m.IsEnabled == 1,
		NextRunTime: m.NextRunTime,
		LastRunTime: m.LastRunTime,
		CreatedAt:   time.Time(m.CreatedAt),
		UpdatedAt:   time.Time(m.UpdatedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *planRepository) toModel(p *domain.Plan) *model.Plan {
	if p == nil {
		return nil
	}
	return &model.Plan{
		ID:            p.ID,
		Name:          p.Name,
		ServerID:      p.ServerID,
		SourceType:    string(p.Source.Type),
		SourceAlbumID: p.Source.AlbumID,
		SourcePath:    p.Source.Path,
		DirTemplate:   p.DirTemplate,
		FileTemplate:  p.FileTemplate,
		Frequency:     string(p.Recurrence.Frequency),
		TimeMinutes:   p.Recurrence.TimeMinutes,
		WeekdayMask:   p.Recurrence.WeekdayMask,
		DayOfMonth:    p.Recurrence.DayOfMonth,
		IntervalHours: p.Recurrence.IntervalHours,
		CronExpr:      p.Recurrence.CronExpr,
		IsEnabled:     convert.Bool2Int(p.IsEnabled),
		NextRunTime:   p.NextRunTime,
		LastRunTime:   p.LastRunTime,
		CreatedAt:     timex.Time(p.CreatedAt),
		UpdatedAt:     timex.Time(p.UpdatedAt),
	}
}

// GetByID 根据ID获取计划
func (r *planRepository) GetByID(ctx context.Context, id int64) (*domain.Plan, error) {
	var m model.Plan
	err := r.plan().WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, 0).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

// List 获取全部未删除的计划
func (r *planRepository) List(ctx context.Context) ([]*domain.Plan, error) {
	var ms []*model.Plan
	err := r.plan().WithContext(ctx).
		Where("is_deleted = ?", 0).
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	plans := make([]*domain.Plan, 0, len(ms))
	for _, m := range ms {
		plans = append(plans, r.toDomain(m))
	}
	return plans, nil
}

// ListDue 获取到期待调度的启用计划
func (r *planRepository) ListDue(ctx context.Context, now int64) ([]*domain.Plan, error) {
	var ms []*model.Plan
	err := r.plan().WithContext(ctx).
		Where("is_deleted = ? AND is_enabled = ? AND next_run_time > 0 AND next_run_time <= ?", 0, 1, now).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	plans := make([]*domain.Plan, 0, len(ms))
	for _, m := range ms {
		plans = append(plans, r.toDomain(m))
	}
	return plans, nil
}

// Create 创建计划
func (r *planRepository) Create(ctx context.Context, plan *domain.Plan) (*domain.Plan, error) {
	m := r.toModel(plan)
	m.ID = 0
	m.CreatedAt = timex.Now()
	m.UpdatedAt = timex.Now()
	if err := r.plan().WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// Update 更新计划
func (r *planRepository) Update(ctx context.Context, plan *domain.Plan) error {
	m := r.toModel(plan)
	m.UpdatedAt = timex.Now()
	return r.plan().WithContext(ctx).
		Where("id = ? AND is_deleted = ?", m.ID, 0).
		Select("name", "server_id", "source_type", "source_album_id", "source_path",
			"dir_template", "file_template", "frequency", "time_minutes", "weekday_mask",
			"day_of_month", "interval_hours", "cron_expr", "is_enabled", "next_run_time", "updated_at").
		Updates(m).Error
}

// UpdateSchedule 更新计划的调度时间
func (r *planRepository) UpdateSchedule(ctx context.Context, id, nextRunTime, lastRunTime int64) error {
	return r.plan().WithContext(ctx).
		Model(&model.Plan{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"next_run_time": nextRunTime,
			"last_run_time": lastRunTime,
			"updated_at":    timex.Now(),
		}).Error
}

// Delete 删除计划（软删除）
func (r *planRepository) Delete(ctx context.Context, id int64) error {
	return r.plan().WithContext(ctx).
		Model(&model.Plan{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": 1,
			"updated_at": timex.Now(),
		}).Error
}

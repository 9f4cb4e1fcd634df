// Package service 实现业务服务层
package service

import (
	"context"
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/domain"
	"github.com/haierkeys/media-share-backup-service/internal/dto"
	"github.com/haierkeys/media-share-backup-service/pkg/code"
	"github.com/haierkeys/media-share-backup-service/pkg/recurrence"
	"github.com/haierkeys/media-share-backup-service/pkg/timex"

	"go.uber.org/zap"
)

// PlanService defines the business service interface for backup plans
// 定义备份计划业务服务接口
type PlanService interface {
	List(ctx context.Context) ([]*dto.PlanDTO, error)
	Get(ctx context.Context, id int64) (*dto.PlanDTO, error)
	Save(ctx context.Context, req *dto.PlanRequest) (*dto.PlanDTO, error)
	Delete(ctx context.Context, id int64) error
}

type planService struct {
	planRepo   domain.PlanRepository
	serverRepo domain.ServerRepository
	recordRepo domain.BackupRecordRepository
	logger     *zap.Logger
}

// NewPlanService creates PlanService instance
// 创建 PlanService 实例
func NewPlanService(
	planRepo domain.PlanRepository,
	serverRepo domain.ServerRepository,
	recordRepo domain.BackupRecordRepository,
	logger *zap.Logger,
) PlanService {
	return &planService{
		planRepo:   planRepo,
		serverRepo: serverRepo,
		recordRepo: recordRepo,
		logger:     logger,
	}
}

// toDTO 领域模型转 DTO
func (s *planService) toDTO(ctx context.Context, p *domain.Plan) *dto.PlanDTO {
	d := &dto.PlanDTO{
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
		IsEnabled:     p.IsEnabled,
		CreatedAt:     timex.Time(p.CreatedAt),
		UpdatedAt:     timex.Time(p.UpdatedAt),
	}
	if p.NextRunTime > 0 {
		d.NextRunTime = timex.Time(time.Unix(p.NextRunTime, 0))
	}
	if p.LastRunTime > 0 {
		d.LastRunTime = timex.Time(time.Unix(p.LastRunTime, 0))
	}
	if count, err := s.recordRepo.CountByPlan(ctx, p.ID); err == nil {
		d.BackupCount = count
	}
	return d
}

// List 获取全部备份计划
func (s *planService) List(ctx context.Context) ([]*dto.PlanDTO, error) {
	plans, err := s.planRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]*dto.PlanDTO, 0, len(plans))
	for _, p := range plans {
		results = append(results, s.toDTO(ctx, p))
	}
	return results, nil
}

// Get 获取单个备份计划
func (s *planService) Get(ctx context.Context, id int64) (*dto.PlanDTO, error) {
	p, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, code.ErrorPlanNotFound
	}
	return s.toDTO(ctx, p), nil
}

// Save 创建或更新备份计划
// 启用的计划会立即按调度设置计算下次运行时间
func (s *planService) Save(ctx context.Context, req *dto.PlanRequest) (*dto.PlanDTO, error) {
	server, err := s.serverRepo.GetByID(ctx, req.ServerID)
	if err != nil {
		return nil, err
	}
	if server == nil {
		return nil, code.ErrorServerNotFound
	}

	plan := &domain.Plan{
		ID:       req.ID,
		Name:     req.Name,
		ServerID: req.ServerID,
		Source: domain.Source{
			Type:    domain.SourceType(req.SourceType),
			AlbumID: req.SourceAlbumID,
			Path:    req.SourcePath,
		},
		DirTemplate:  req.DirTemplate,
		FileTemplate: req.FileTemplate,
		Recurrence: recurrence.Settings{
			Frequency:     recurrence.Frequency(req.Frequency),
			TimeMinutes:   req.TimeMinutes,
			WeekdayMask:   req.WeekdayMask,
			DayOfMonth:    req.DayOfMonth,
			IntervalHours: req.IntervalHours,
			CronExpr:      req.CronExpr,
		},
		IsEnabled: req.IsEnabled,
	}

	// 停用的计划不参与调度
	if plan.IsEnabled {
		plan.NextRunTime = recurrence.NextRun(time.Now(), plan.Recurrence).Unix()
	}

	if plan.ID > 0 {
		existing, err := s.planRepo.GetByID(ctx, plan.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, code.ErrorPlanNotFound
		}
		plan.LastRunTime = existing.LastRunTime
		if err := s.planRepo.Update(ctx, plan); err != nil {
			return nil, err
		}
		s.logger.Info("backup plan updated", zap.Int64("planId", plan.ID), zap.String("name", plan.Name))
		return s.Get(ctx, plan.ID)
	}

	created, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	s.logger.Info("backup plan created", zap.Int64("planId", created.ID), zap.String("name", created.Name))
	return s.toDTO(ctx, created), nil
}

// Delete 删除备份计划
func (s *planService) Delete(ctx context.Context, id int64) error {
	p, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return code.ErrorPlanNotFound
	}
	if err := s.planRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("backup plan deleted", zap.Int64("planId", id))
	return nil
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/domain"
	"github.com/haierkeys/media-share-backup-service/internal/dto"
	"github.com/haierkeys/media-share-backup-service/internal/metrics"
	"github.com/haierkeys/media-share-backup-service/pkg/code"
	"github.com/haierkeys/media-share-backup-service/pkg/logger"
	"github.com/haierkeys/media-share-backup-service/pkg/pathrender"
	"github.com/haierkeys/media-share-backup-service/pkg/recurrence"
	"github.com/haierkeys/media-share-backup-service/pkg/smbshare"
	"github.com/haierkeys/media-share-backup-service/pkg/timex"
	"github.com/haierkeys/media-share-backup-service/pkg/workerpool"

	"go.uber.org/zap"
)

// RunService defines the backup run orchestration interface
// 定义备份运行编排接口
type RunService interface {
	// Execute 为计划启动一次运行并异步执行，返回 RUNNING 状态的运行记录
	Execute(ctx context.Context, planID int64, trigger domain.RunTrigger) (*dto.RunDTO, error)

	// Cancel 取消进行中的运行
	Cancel(ctx context.Context, runID int64) error

	Get(ctx context.Context, runID int64) (*dto.RunDTO, error)
	List(ctx context.Context, planID int64, page, pageSize int) ([]*dto.RunDTO, int64, error)
	Logs(ctx context.Context, runID int64) ([]*dto.RunLogDTO, error)

	// ExecuteDuePlans 调度全部到期的启用计划
	ExecuteDuePlans(ctx context.Context) error

	// ReconcileInterrupted 启动时将遗留的 RUNNING 运行标记为 INTERRUPTED
	ReconcileInterrupted(ctx context.Context) error

	// Shutdown 取消所有进行中的运行并等待退出
	Shutdown(ctx context.Context) error
}

type runService struct {
	planRepo   domain.PlanRepository
	serverRepo domain.ServerRepository
	runRepo    domain.RunRepository
	runLogRepo domain.RunLogRepository
	recordRepo domain.BackupRecordRepository
	source     domain.MediaSource
	dialer     domain.ShareDialer
	credStore  domain.CredentialStore
	renderer   *pathrender.Renderer
	pool       *workerpool.Pool
	logger     *zap.Logger

	wg           sync.WaitGroup
	runningMu    sync.Mutex
	runningRuns  map[int64]context.CancelFunc // key: runID
	runningPlans map[int64]int64              // key: planID, value: runID
}

// NewRunService creates RunService instance
// 创建 RunService 实例
func NewRunService(
	planRepo domain.PlanRepository,
	serverRepo domain.ServerRepository,
	runRepo domain.RunRepository,
	runLogRepo domain.RunLogRepository,
	recordRepo domain.BackupRecordRepository,
	source domain.MediaSource,
	dialer domain.ShareDialer,
	credStore domain.CredentialStore,
	deviceLabel string,
	pool *workerpool.Pool,
	logger *zap.Logger,
) RunService {
	return &runService{
		planRepo:     planRepo,
		serverRepo:   serverRepo,
		runRepo:      runRepo,
		runLogRepo:   runLogRepo,
		recordRepo:   recordRepo,
		source:       source,
		dialer:       dialer,
		credStore:    credStore,
		renderer:     &pathrender.Renderer{DeviceLabel: deviceLabel},
		pool:         pool,
		logger:       logger,
		runningRuns:  make(map[int64]context.CancelFunc),
		runningPlans: make(map[int64]int64),
	}
}

func (s *runService) toDTO(run *domain.Run) *dto.RunDTO {
	return &dto.RunDTO{
		ID:            run.ID,
		PlanID:        run.PlanID,
		Status:        string(run.Status),
		Trigger:       string(run.Trigger),
		TotalCount:    run.TotalCount,
		UploadedCount: run.UploadedCount,
		SkippedCount:  run.SkippedCount,
		FailedCount:   run.FailedCount,
		BytesUploaded: run.BytesUploaded,
		ErrorSummary:  run.ErrorSummary,
		ErrorCategory: run.ErrorCategory,
		StartedAt:     timex.Time(run.StartedAt),
		FinishedAt:    timex.Time(run.FinishedAt),
	}
}

// Execute 为计划启动一次运行并异步执行
// 同一计划同一时刻只允许一个进行中的运行
func (s *runService) Execute(ctx context.Context, planID int64, trigger domain.RunTrigger) (*dto.RunDTO, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, code.ErrorPlanNotFound
	}

	var setupErr error
	if !plan.IsEnabled && trigger == domain.RunTriggerScheduled {
		setupErr = code.ErrorPlanDisabled
	} else if !s.source.Supports(plan.Source.Type) {
		setupErr = code.ErrorPlanSourceUnsupported
	}
	if setupErr != nil {
		// 调度路径留下 FAILED 轨迹并推进时间，接口路径直接报错
		if trigger == domain.RunTriggerScheduled {
			s.recordSetupFailure(ctx, plan, trigger, setupErr)
		}
		return nil, setupErr
	}

	s.runningMu.Lock()
	if runID, busy := s.runningPlans[planID]; busy {
		s.runningMu.Unlock()
		s.logger.Warn("plan already running",
			zap.Int64(logger.FieldPlanID, planID),
			zap.Int64(logger.FieldRunID, runID))
		return nil, code.ErrorRunAlreadyRunning
	}
	s.runningMu.Unlock()

	run, err := s.runRepo.Create(ctx, &domain.Run{
		PlanID:    planID,
		Status:    domain.RunStatusRunning,
		Trigger:   trigger,
		StartedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.runningMu.Lock()
	s.runningRuns[run.ID] = cancel
	s.runningPlans[planID] = run.ID
	s.runningMu.Unlock()

	// 调度时间提前推进，执行失败不影响下一轮
	s.advanceSchedule(ctx, plan)

	s.wg.Add(1)
	job := func(context.Context) error {
		defer s.wg.Done()
		defer func() {
			cancel()
			s.runningMu.Lock()
			delete(s.runningRuns, run.ID)
			delete(s.runningPlans, planID)
			s.runningMu.Unlock()
		}()
		s.perform(runCtx, run, plan)
		return nil
	}

	// 运行体走工作池，池不可用时退化为裸协程
	if s.pool == nil || s.pool.SubmitAsync(context.Background(), job) != nil {
		go job(context.Background())
	}

	return s.toDTO(run), nil
}

// recordSetupFailure 为无法启动的调度运行留下 FAILED 轨迹
// 不推进时间会让同一个坏计划每轮调度都被重新派发
func (s *runService) recordSetupFailure(ctx context.Context, plan *domain.Plan, trigger domain.RunTrigger, cause error) {
	s.advanceSchedule(ctx, plan)

	run, err := s.runRepo.Create(ctx, &domain.Run{
		PlanID:    plan.ID,
		Status:    domain.RunStatusRunning,
		Trigger:   trigger,
		StartedAt: time.Now(),
	})
	if err != nil {
		s.logger.Warn("record setup failure failed",
			zap.Int64(logger.FieldPlanID, plan.ID), zap.Error(err))
		return
	}
	s.appendLog(ctx, run.ID, domain.RunLogLevelInfo, "run started", "", "")
	s.failRun(run, cause)
}

// advanceSchedule 推进计划的上次/下次运行时间
func (s *runService) advanceSchedule(ctx context.Context, plan *domain.Plan) {
	now := time.Now()
	next := int64(0)
	if plan.IsEnabled {
		next = recurrence.NextRun(now, plan.Recurrence).Unix()
	}
	if err := s.planRepo.UpdateSchedule(ctx, plan.ID, next, now.Unix()); err != nil {
		s.logger.Warn("update plan schedule failed",
			zap.Int64(logger.FieldPlanID, plan.ID), zap.Error(err))
	}
}

// appendLog 写运行日志，落库失败只记进程日志
func (s *runService) appendLog(ctx context.Context, runID int64, level domain.RunLogLevel, message, category, mediaID string) {
	err := s.runLogRepo.Append(ctx, &domain.RunLog{
		RunID:    runID,
		Level:    level,
		Message:  message,
		Category: category,
		MediaID:  mediaID,
	})
	if err != nil {
		s.logger.Warn("append run log failed",
			zap.Int64(logger.FieldRunID, runID), zap.Error(err))
	}
}

// finalize 写入终态，每个运行只终结一次
func (s *runService) finalize(run *domain.Run, status domain.RunStatus) {
	// 终结动作不跟随运行取消，用独立的短超时上下文落库
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	run.Status = status
	run.FinishedAt = time.Now()
	if err := s.runRepo.Finalize(ctx, run); err != nil {
		s.logger.Error("finalize run failed",
			zap.Int64(logger.FieldRunID, run.ID), zap.Error(err))
		return
	}

	s.appendLog(ctx, run.ID, domain.RunLogLevelInfo,
		fmt.Sprintf("run finished: %s, uploaded %d, skipped %d, failed %d",
			status, run.UploadedCount, run.SkippedCount, run.FailedCount), "", "")

	metrics.RunsFinished.WithLabelValues(string(status)).Inc()
	metrics.RunDuration.Observe(run.FinishedAt.Sub(run.StartedAt).Seconds())
	metrics.MediaUploaded.Add(float64(run.UploadedCount))
	metrics.MediaSkipped.Add(float64(run.SkippedCount))
	metrics.BytesUploaded.Add(float64(run.BytesUploaded))

	s.logger.Info("backup run finished",
		zap.Int64(logger.FieldRunID, run.ID),
		zap.Int64(logger.FieldPlanID, run.PlanID),
		zap.String(logger.FieldStatus, string(status)),
		zap.Int("uploaded", run.UploadedCount),
		zap.Int("skipped", run.SkippedCount),
		zap.Int("failed", run.FailedCount),
		zap.Int64("bytes", run.BytesUploaded),
		zap.Duration(logger.FieldDuration, run.FinishedAt.Sub(run.StartedAt)))
}

// failRun 以连接级错误终结运行
// 快速失败没有逐项工作，按一次失败计数
func (s *runService) failRun(run *domain.Run, err error) {
	category := smbshare.Classify(err)
	run.FailedCount = 1
	run.ErrorSummary = err.Error()
	run.ErrorCategory = string(category)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	s.appendLog(ctx, run.ID, domain.RunLogLevelError, err.Error(), string(category), "")
	cancel()

	s.finalize(run, domain.RunStatusFailed)
}

// perform 执行一次完整的备份运行
func (s *runService) perform(ctx context.Context, run *domain.Run, plan *domain.Plan) {
	s.logger.Info("backup run started",
		zap.Int64(logger.FieldRunID, run.ID),
		zap.Int64(logger.FieldPlanID, plan.ID),
		zap.String("trigger", string(run.Trigger)))
	s.appendLog(ctx, run.ID, domain.RunLogLevelInfo, "run started", "", "")

	server, err := s.serverRepo.GetByID(ctx, plan.ServerID)
	if err == nil && server == nil {
		err = code.ErrorServerNotFound
	}
	if err != nil {
		s.failRun(run, err)
		return
	}

	cred, err := s.credStore.Load(server.CredentialAlias)
	if err == nil && cred == nil {
		err = code.ErrorCredentialsNotFound
	}
	if err != nil {
		s.failRun(run, err)
		return
	}

	items, err := s.source.List(ctx, plan.Source)
	if err != nil {
		s.failRun(run, err)
		return
	}
	run.TotalCount = len(items)
	s.appendLog(ctx, run.ID, domain.RunLogLevelInfo,
		fmt.Sprintf("scanned %d media items", len(items)), "", "")

	if len(items) == 0 {
		s.finalize(run, domain.RunStatusSuccess)
		return
	}

	// 批量预查去重记录，循环内不再逐条查库
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	existing, err := s.recordRepo.ExistingMediaIDs(ctx, plan.ID, ids)
	if err != nil {
		s.failRun(run, err)
		return
	}

	conn, err := s.dialer.Dial(ctx, domain.ShareTarget{
		Host:     server.Host,
		Port:     server.Port,
		Share:    server.Share,
		Domain:   cred.Domain,
		User:     cred.User,
		Password: cred.Password,
	})
	if err != nil {
		s.failRun(run, err)
		return
	}
	defer conn.Close()

	canceled := false
	for _, item := range items {
		if ctx.Err() != nil {
			canceled = true
			break
		}

		if _, done := existing[item.ID]; done {
			run.SkippedCount++
			continue
		}

		if err := s.backupItem(ctx, run, plan, server, conn, item); err != nil {
			if ctx.Err() != nil {
				canceled = true
				break
			}
			category := smbshare.Classify(err)
			run.FailedCount++
			metrics.UploadFailures.WithLabelValues(string(category)).Inc()
			if run.ErrorSummary == "" {
				run.ErrorSummary = err.Error()
				run.ErrorCategory = string(category)
			}
			s.appendLog(ctx, run.ID, domain.RunLogLevelError, err.Error(), string(category), item.ID)
			s.logger.Warn("media item backup failed",
				zap.Int64(logger.FieldRunID, run.ID),
				zap.String(logger.FieldMediaID, item.ID),
				zap.String(logger.FieldCategory, string(category)),
				zap.Error(err))
		}
	}

	if canceled {
		s.appendLog(context.Background(), run.ID, domain.RunLogLevelWarn, "run canceled", "", "")
		s.finalize(run, domain.RunStatusCanceled)
		return
	}

	s.finalize(run, domain.DeriveRunStatus(run.UploadedCount, run.SkippedCount, run.FailedCount))
}

// backupItem 上传单个媒体项并写去重记录
func (s *runService) backupItem(ctx context.Context, run *domain.Run, plan *domain.Plan, server *domain.Server, conn domain.ShareConn, item domain.MediaItem) error {
	stream, err := s.source.Open(ctx, plan.Source, item)
	if err != nil {
		return err
	}
	defer stream.Close()

	remotePath := s.renderer.Render(server.BasePath, plan.DirTemplate, plan.FileTemplate,
		pathrender.Item{
			ID:          item.ID,
			DisplayName: item.DisplayName,
			MimeType:    item.MimeType,
			CapturedAt:  item.CapturedAt,
			Album:       item.Album,
		}, plan.Source.AlbumID)

	written, err := conn.Upload(ctx, remotePath, stream)
	if err != nil {
		return err
	}

	run.UploadedCount++
	run.BytesUploaded += written

	err = s.recordRepo.Create(ctx, &domain.BackupRecord{
		PlanID:     plan.ID,
		MediaID:    item.ID,
		RunID:      run.ID,
		RemotePath: remotePath,
		SizeBytes:  written,
	})
	if err != nil {
		// 唯一约束兜底：并发下重复记录不计为失败
		s.logger.Warn("backup record create failed",
			zap.Int64(logger.FieldRunID, run.ID),
			zap.String(logger.FieldMediaID, item.ID),
			zap.Error(err))
	}

	s.logger.Debug("media item uploaded",
		zap.Int64(logger.FieldRunID, run.ID),
		zap.String(logger.FieldMediaID, item.ID),
		zap.String(logger.FieldRemotePath, remotePath),
		zap.Int64("bytes", written))
	return nil
}

// Cancel 取消进行中的运行
func (s *runService) Cancel(ctx context.Context, runID int64) error {
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return code.ErrorRunNotFound
	}

	s.runningMu.Lock()
	cancel, ok := s.runningRuns[runID]
	s.runningMu.Unlock()
	if !ok {
		return code.ErrorRunNotRunning
	}

	cancel()
	s.logger.Info("backup run cancel requested", zap.Int64(logger.FieldRunID, runID))
	return nil
}

// Get 获取单个运行
func (s *runService) Get(ctx context.Context, runID int64) (*dto.RunDTO, error) {
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, code.ErrorRunNotFound
	}
	return s.toDTO(run), nil
}

// List 分页获取运行列表
func (s *runService) List(ctx context.Context, planID int64, page, pageSize int) ([]*dto.RunDTO, int64, error) {
	runs, err := s.runRepo.List(ctx, planID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.runRepo.ListCount(ctx, planID)
	if err != nil {
		return nil, 0, err
	}
	results := make([]*dto.RunDTO, 0, len(runs))
	for _, run := range runs {
		results = append(results, s.toDTO(run))
	}
	return results, count, nil
}

// Logs 获取运行的全部日志
func (s *runService) Logs(ctx context.Context, runID int64) ([]*dto.RunLogDTO, error) {
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, code.ErrorRunNotFound
	}

	logs, err := s.runLogRepo.ListByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	results := make([]*dto.RunLogDTO, 0, len(logs))
	for _, l := range logs {
		results = append(results, &dto.RunLogDTO{
			ID:        l.ID,
			RunID:     l.RunID,
			Level:     string(l.Level),
			Message:   l.Message,
			Category:  l.Category,
			MediaID:   l.MediaID,
			CreatedAt: timex.Time(l.CreatedAt),
		})
	}
	return results, nil
}

// ExecuteDuePlans 调度全部到期的启用计划
func (s *runService) ExecuteDuePlans(ctx context.Context) error {
	plans, err := s.planRepo.ListDue(ctx, time.Now().Unix())
	if err != nil {
		return err
	}

	for _, plan := range plans {
		if _, err := s.Execute(ctx, plan.ID, domain.RunTriggerScheduled); err != nil {
			// 计划级失败不阻塞其余计划的调度
			if err != code.ErrorRunAlreadyRunning {
				s.logger.Warn("dispatch due plan failed",
					zap.Int64(logger.FieldPlanID, plan.ID), zap.Error(err))
			}
		}
	}
	return nil
}

// ReconcileInterrupted 启动时将遗留的 RUNNING 运行标记为 INTERRUPTED
// 进程崩溃或强杀会留下没有执行者的 RUNNING 记录
func (s *runService) ReconcileInterrupted(ctx context.Context) error {
	runs, err := s.runRepo.ListByStatus(ctx, domain.RunStatusRunning)
	if err != nil {
		return err
	}

	for _, run := range runs {
		s.runningMu.Lock()
		_, active := s.runningRuns[run.ID]
		s.runningMu.Unlock()
		if active {
			continue
		}

		run.ErrorSummary = "run interrupted by service restart"
		s.finalize(run, domain.RunStatusInterrupted)
		s.logger.Warn("stale run marked interrupted",
			zap.Int64(logger.FieldRunID, run.ID),
			zap.Int64(logger.FieldPlanID, run.PlanID))
	}
	return nil
}

// Shutdown 取消所有进行中的运行并等待退出
func (s *runService) Shutdown(ctx context.Context) error {
	s.runningMu.Lock()
	for _, cancel := range s.runningRuns {
		cancel()
	}
	s.runningMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

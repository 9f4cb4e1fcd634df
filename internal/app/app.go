// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/dao"
	"github.com/haierkeys/media-share-backup-service/internal/domain"
	"github.com/haierkeys/media-share-backup-service/internal/service"
	pkgapp "github.com/haierkeys/media-share-backup-service/pkg/app"
	"github.com/haierkeys/media-share-backup-service/pkg/credstore"
	"github.com/haierkeys/media-share-backup-service/pkg/discovery"
	"github.com/haierkeys/media-share-backup-service/pkg/util"
	"github.com/haierkeys/media-share-backup-service/pkg/workerpool"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// StartTime 进程启动时间，用于健康检查的 uptime
	StartTime time.Time

	// 并发控制组件
	workerPool *workerpool.Pool

	// Repository 层
	PlanRepo   domain.PlanRepository
	ServerRepo domain.ServerRepository
	RunRepo    domain.RunRepository
	RunLogRepo domain.RunLogRepository
	RecordRepo domain.BackupRecordRepository

	// 基础设施组件
	CredStore domain.CredentialStore
	Dialer    domain.ShareDialer
	Scanner   domain.ServerScanner
	Source    domain.MediaSource

	// Service 层
	PlanService      service.PlanService
	ServerService    service.ServerService
	RunService       service.RunService
	DiscoveryService service.DiscoveryService

	// 关闭控制
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 初始化 DAO（使用依赖注入）
	a.Dao = dao.New(db, context.Background(),
		dao.WithConfig(NewDatabaseConfig(cfg)),
		dao.WithLogger(logger),
	)

	// 初始化 Repository 层
	a.PlanRepo = dao.NewPlanRepository(a.Dao)
	a.ServerRepo = dao.NewServerRepository(a.Dao)
	a.RunRepo = dao.NewRunRepository(a.Dao)
	a.RunLogRepo = dao.NewRunLogRepository(a.Dao)
	a.RecordRepo = dao.NewBackupRecordRepository(a.Dao)

	// 初始化凭证存储
	store, err := credstore.NewStore(cfg.Backup.CredentialPath, cfg.Security.CredentialKey)
	if err != nil {
		return nil, err
	}
	a.CredStore = service.NewCredentialStore(store)

	// 初始化 SMB 连接器与子网扫描器
	a.Dialer = service.NewSMBDialer(
		time.Duration(cfg.Backup.DialTimeout)*time.Second,
		time.Duration(cfg.Backup.UploadTimeout)*time.Second)
	a.Scanner = service.NewServerScanner(discovery.NewScanner(discovery.Config{
		Port:          cfg.Discovery.Port,
		ProbeTimeout:  time.Duration(cfg.Discovery.ProbeTimeoutMs) * time.Millisecond,
		Concurrency:   int64(cfg.Discovery.Concurrency),
		FallbackHosts: cfg.Discovery.FallbackHosts,
	}))

	// 媒体来源：本地文件系统
	a.Source = service.NewFSMediaSource(cfg.Backup.MediaLibraryPath)

	// {device} 变量默认取机器标识
	deviceLabel := cfg.Backup.DeviceLabel
	if deviceLabel == "" {
		deviceLabel = util.GetMachineID()
	}

	// 初始化 Service 层（依赖注入）
	a.PlanService = service.NewPlanService(a.PlanRepo, a.ServerRepo, a.RecordRepo, logger)
	a.ServerService = service.NewServerService(a.ServerRepo, a.CredStore, a.Dialer, logger)
	a.RunService = service.NewRunService(
		a.PlanRepo, a.ServerRepo, a.RunRepo, a.RunLogRepo, a.RecordRepo,
		a.Source, a.Dialer, a.CredStore, deviceLabel, a.workerPool, logger)
	a.DiscoveryService = service.NewDiscoveryService(a.Scanner, logger)

	logger.Info("App container initialized successfully",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers))

	return a, nil
}

// NewDatabaseConfig 从应用配置构造 DAO 数据库配置
func NewDatabaseConfig(cfg *AppConfig) *dao.DatabaseConfig {
	return &dao.DatabaseConfig{
		Type:            cfg.Database.Type,
		Path:            cfg.Database.Path,
		UserName:        cfg.Database.UserName,
		Password:        cfg.Database.Password,
		Host:            cfg.Database.Host,
		Name:            cfg.Database.Name,
		TablePrefix:     cfg.Database.TablePrefix,
		AutoMigrate:     cfg.Database.AutoMigrate,
		Charset:         cfg.Database.Charset,
		ParseTime:       cfg.Database.ParseTime,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		RunMode:         cfg.Server.RunMode,
	}
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// WorkerPool 获取 Worker Pool（用于高级操作）
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：RunService -> Worker Pool -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	// 如果没有提供 context，使用默认超时
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	// 标记关闭
	select {
	case <-a.shutdownCh:
		// 已经关闭
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	// 1. 取消进行中的运行并等待退出
	if a.RunService != nil {
		a.logger.Info("Shutting down run service...")
		if err := a.RunService.Shutdown(ctx); err != nil {
			a.logger.Warn("Run service shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("run service shutdown: %w", err))
		}
	}

	// 2. 关闭 Worker Pool（停止接受新任务，等待现有任务完成）
	if a.workerPool != nil {
		a.logger.Info("Shutting down worker pool...")
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		} else {
			a.logger.Info("Worker pool shutdown completed")
		}
	}

	// 3. 等待所有后台操作完成
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All background operations completed")
	case <-ctx.Done():
		a.logger.Warn("Shutdown timeout waiting for background operations")
		errs = append(errs, fmt.Errorf("background operations timeout: %w", ctx.Err()))
	}

	// 4. 关闭数据库连接
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors",
			zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownCh 返回关闭信号通道（用于监听关闭事件）
func (a *App) ShutdownCh() <-chan struct{} {
	return a.shutdownCh
}

// TrackOperation 跟踪后台操作（用于优雅关闭时等待）
// 返回一个函数，在操作完成时调用
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}

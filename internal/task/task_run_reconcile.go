package task

import (
	"context"
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/app"

	"go.uber.org/zap"
)

// RunReconcileTask marks stale RUNNING runs as interrupted on startup
// 启动时回收进程上次退出遗留的 RUNNING 运行
type RunReconcileTask struct {
	app    *app.App
	logger *zap.Logger
}

// Name returns the task name
func (t *RunReconcileTask) Name() string {
	return "RunReconcile"
}

// LoopInterval returns the execution interval
// 只在启动时执行一次
func (t *RunReconcileTask) LoopInterval() time.Duration {
	return 0
}

// IsStartupRun returns whether to run on startup
func (t *RunReconcileTask) IsStartupRun() bool {
	return true
}

// Run executes the reconcile
func (t *RunReconcileTask) Run(ctx context.Context) error {
	if t.app.RunService == nil {
		return nil
	}
	return t.app.RunService.ReconcileInterrupted(ctx)
}

// NewRunReconcileTask creates a new RunReconcileTask instance
func NewRunReconcileTask(appContainer *app.App) (Task, error) {
	return &RunReconcileTask{
		app:    appContainer,
		logger: appContainer.Logger(),
	}, nil
}

func init() {
	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		return NewRunReconcileTask(appContainer)
	})
}

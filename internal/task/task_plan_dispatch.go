package task

import (
	"context"
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/app"

	"go.uber.org/zap"
)

// PlanDispatchTask dispatches due backup plans
// 周期扫描到期计划并派发运行
type PlanDispatchTask struct {
	app    *app.App
	logger *zap.Logger
}

// Name returns the task name
func (t *PlanDispatchTask) Name() string {
	return "PlanDispatch"
}

// LoopInterval returns the execution interval (every minute)
func (t *PlanDispatchTask) LoopInterval() time.Duration {
	return 1 * time.Minute
}

// IsStartupRun returns whether to run on startup
// 启动后先等一轮,避免和中断恢复抢先后顺序
func (t *PlanDispatchTask) IsStartupRun() bool {
	return false
}

// Run executes the dispatch
func (t *PlanDispatchTask) Run(ctx context.Context) error {
	if t.app.RunService == nil {
		return nil
	}
	return t.app.RunService.ExecuteDuePlans(ctx)
}

// NewPlanDispatchTask creates a new PlanDispatchTask instance
func NewPlanDispatchTask(appContainer *app.App) (Task, error) {
	return &PlanDispatchTask{
		app:    appContainer,
		logger: appContainer.Logger(),
	}, nil
}

func init() {
	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		return NewPlanDispatchTask(appContainer)
	})
}

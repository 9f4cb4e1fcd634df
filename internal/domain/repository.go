package domain

import "context"

// PlanRepository 备份计划仓储接口
type PlanRepository interface {
	// GetByID 根据ID获取计划
	GetByID(ctx context.Context, id int64) (*Plan, error)

	// List 获取全部未删除的计划
	List(ctx context.Context) ([]*Plan, error)

	// ListDue 获取到期待调度的启用计划
	ListDue(ctx context.Context, now int64) ([]*Plan, error)

	// Create 创建计划
	Create(ctx context.Context, plan *Plan) (*Plan, error)

	// Update 更新计划
	Update(ctx context.Context, plan *Plan) error

	// UpdateSchedule 更新计划的调度时间
	UpdateSchedule(ctx context.Context, id, nextRunTime, lastRunTime int64) error

	// Delete 删除计划（软删除）
	Delete(ctx context.Context, id int64) error
}

// ServerRepository 服务器仓储接口
type ServerRepository interface {
	// GetByID 根据ID获取服务器
	GetByID(ctx context.Context, id int64) (*Server, error)

	// List 获取全部未删除的服务器
	List(ctx context.Context) ([]*Server, error)

	// Create 创建服务器
	Create(ctx context.Context, server *Server) (*Server, error)

	// Update 更新服务器
	Update(ctx context.Context, server *Server) error

	// UpdateTestResult 记录最近一次连接测试的诊断信息
	UpdateTestResult(ctx context.Context, server *Server) error

	// Delete 删除服务器（软删除）
	Delete(ctx context.Context, id int64) error
}

// RunRepository 运行记录仓储接口
type RunRepository interface {
	// GetByID 根据ID获取运行
	GetByID(ctx context.Context, id int64) (*Run, error)

	// Create 创建运行
	Create(ctx context.Context, run *Run) (*Run, error)

	// Finalize 写入终态和最终计数，运行只终结一次
	Finalize(ctx context.Context, run *Run) error

	// List 分页获取运行列表，planID 为 0 时不过滤计划
	List(ctx context.Context, planID int64, page, pageSize int) ([]*Run, error)

	// ListCount 获取运行数量
	ListCount(ctx context.Context, planID int64) (int64, error)

	// ListByStatus 获取指定状态的运行
	ListByStatus(ctx context.Context, status RunStatus) ([]*Run, error)
}

// RunLogRepository 运行日志仓储接口
type RunLogRepository interface {
	// Append 追加一条运行日志
	Append(ctx context.Context, log *RunLog) error

	// ListByRunID 获取运行的全部日志，按写入顺序
	ListByRunID(ctx context.Context, runID int64) ([]*RunLog, error)
}

// BackupRecordRepository 备份去重记录仓储接口
type BackupRecordRepository interface {
	// Create 创建记录，(planId, mediaId) 冲突时返回错误
	Create(ctx context.Context, record *BackupRecord) error

	// GetByPlanAndMedia 查询单条记录，不存在时返回 (nil, nil)
	GetByPlanAndMedia(ctx context.Context, planID int64, mediaID string) (*BackupRecord, error)

	// ExistingMediaIDs 批量查询已备份的媒体ID集合
	ExistingMediaIDs(ctx context.Context, planID int64, mediaIDs []string) (map[string]struct{}, error)

	// CountByPlan 获取计划的累计备份数量
	CountByPlan(ctx context.Context, planID int64) (int64, error)
}

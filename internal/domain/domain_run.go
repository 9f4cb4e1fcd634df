package domain

import "time"

// RunStatus 运行状态
type RunStatus string

const (
	RunStatusRunning     RunStatus = "RUNNING"
	RunStatusSuccess     RunStatus = "SUCCESS"
	RunStatusPartial     RunStatus = "PARTIAL"
	RunStatusFailed      RunStatus = "FAILED"
	RunStatusCanceled    RunStatus = "CANCELED"
	RunStatusInterrupted RunStatus = "INTERRUPTED"
)

// IsTerminal 是否为终态
func (s RunStatus) IsTerminal() bool {
	return s != RunStatusRunning
}

// RunTrigger 运行触发方式
type RunTrigger string

const (
	RunTriggerManual    RunTrigger = "manual"
	RunTriggerScheduled RunTrigger = "scheduled"
)

// Run 一次备份执行
type Run struct {
	ID            int64      `json:"id"`
	PlanID        int64      `json:"planId"`
	Status        RunStatus  `json:"status"`
	Trigger       RunTrigger `json:"trigger"`
	TotalCount    int        `json:"totalCount"`
	UploadedCount int        `json:"uploadedCount"`
	SkippedCount  int        `json:"skippedCount"`
	FailedCount   int        `json:"failedCount"`
	BytesUploaded int64      `json:"bytesUploaded"`
	// ErrorSummary 首个失败项的错误描述，终态时填充
	ErrorSummary  string    `json:"errorSummary"`
	ErrorCategory string    `json:"errorCategory"`
	StartedAt     time.Time `json:"startedAt"`
	FinishedAt    time.Time `json:"finishedAt"`
}

// DeriveRunStatus 按计数推导完成状态
// 全部失败且无任何成功或跳过为 FAILED，有失败但有进展为 PARTIAL，否则 SUCCESS
func DeriveRunStatus(uploaded, skipped, failed int) RunStatus {
	if failed > 0 && uploaded == 0 && skipped == 0 {
		return RunStatusFailed
	}
	if failed > 0 {
		return RunStatusPartial
	}
	return RunStatusSuccess
}

// RunLogLevel 运行日志级别
type RunLogLevel string

const (
	RunLogLevelInfo  RunLogLevel = "INFO"
	RunLogLevelWarn  RunLogLevel = "WARN"
	RunLogLevelError RunLogLevel = "ERROR"
)

// RunLog 运行期间的一条日志
type RunLog struct {
	ID       int64       `json:"id"`
	RunID    int64       `json:"runId"`
	Level    RunLogLevel `json:"level"`
	Message  string      `json:"message"`
	Category string      `json:"category"`
	MediaID  string      `json:"mediaId"`
	CreatedAt time.Time  `json:"createdAt"`
}

// BackupRecord 已成功上传媒体项的记录，用于跨运行去重
type BackupRecord struct {
	ID         int64     `json:"id"`
	PlanID     int64     `json:"planId"`
	MediaID    string    `json:"mediaId"`
	RunID      int64     `json:"runId"`
	RemotePath string    `json:"remotePath"`
	SizeBytes  int64     `json:"sizeBytes"`
	CreatedAt  time.Time `json:"createdAt"`
}

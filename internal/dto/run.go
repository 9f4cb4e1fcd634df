package dto

import "github.com/haierkeys/media-share-backup-service/pkg/timex"

// RunExecuteRequest 手动触发运行请求
type RunExecuteRequest struct {
	PlanID int64 `json:"planId" form:"planId" binding:"required" example:"1"`
}

// RunGetRequest 运行查询请求
type RunGetRequest struct {
	ID int64 `json:"id" form:"id" uri:"id" binding:"required" example:"1"`
}

// RunListRequest 运行列表请求
type RunListRequest struct {
	PlanID   int64 `json:"planId" form:"planId" example:"1"`
	Page     int   `json:"page" form:"page" example:"1"`
	PageSize int   `json:"pageSize" form:"pageSize" example:"10"`
}

// RunDTO 运行 DTO
type RunDTO struct {
	ID            int64      `json:"id"`            // 运行ID
	PlanID        int64      `json:"planId"`        // 计划ID
	Status        string     `json:"status"`        // 状态
	Trigger       string     `json:"trigger"`       // 触发方式 (manual, scheduled)
	TotalCount    int        `json:"totalCount"`    // 枚举到的媒体项总数
	UploadedCount int        `json:"uploadedCount"` // 上传成功数量
	SkippedCount  int        `json:"skippedCount"`  // 去重跳过数量
	FailedCount   int        `json:"failedCount"`   // 失败数量
	BytesUploaded int64      `json:"bytesUploaded"` // 上传字节数
	ErrorSummary  string     `json:"errorSummary"`  // 错误摘要
	ErrorCategory string     `json:"errorCategory"` // 错误分类
	StartedAt     timex.Time `json:"startedAt"`     // 开始时间
	FinishedAt    timex.Time `json:"finishedAt"`    // 结束时间
}

// RunLogDTO 运行日志 DTO
type RunLogDTO struct {
	ID        int64      `json:"id"`        // 日志ID
	RunID     int64      `json:"runId"`     // 运行ID
	Level     string     `json:"level"`     // 级别
	Message   string     `json:"message"`   // 内容
	Category  string     `json:"category"`  // 失败分类
	MediaID   string     `json:"mediaId"`   // 关联媒体ID
	CreatedAt timex.Time `json:"createdAt"` // 写入时间
}

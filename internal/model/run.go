package model

import "github.com/haierkeys/media-share-backup-service/pkg/timex"

const TableNameRun = "run"

// Run 一次备份执行记录
type Run struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	PlanID        int64      `gorm:"column:plan_id;not null;index:idx_plan_id" json:"planId" form:"planId"`
	Status        string     `gorm:"column:status;not null;index:idx_status" json:"status" form:"status"`
	Trigger       string     `gorm:"column:trigger;not null" json:"trigger" form:"trigger"`
	TotalCount    int        `gorm:"column:total_count" json:"totalCount" form:"totalCount"`
	UploadedCount int        `gorm:"column:uploaded_count" json:"uploadedCount" form:"uploadedCount"`
	SkippedCount  int        `gorm:"column:skipped_count" json:"skippedCount" form:"skippedCount"`
	FailedCount   int        `gorm:"column:failed_count" json:"failedCount" form:"failedCount"`
	BytesUploaded int64      `gorm:"column:bytes_uploaded" json:"bytesUploaded" form:"bytesUploaded"`
	ErrorSummary  string     `gorm:"column:error_summary" json:"errorSummary" form:"errorSummary"`
	ErrorCategory string     `gorm:"column:error_category" json:"errorCategory" form:"errorCategory"`
	StartedAt     timex.Time `gorm:"column:started_at;type:datetime;autoCreateTime:false" json:"startedAt" form:"startedAt"`
	FinishedAt    timex.Time `gorm:"column:finished_at;type:datetime;autoCreateTime:false" json:"finishedAt" form:"finishedAt"`
}

// TableName Run's table name
func (*Run) TableName() string {
	return TableNameRun
}

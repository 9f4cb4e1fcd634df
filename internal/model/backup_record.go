package model

import "github.com/haierkeys/media-share-backup-service/pkg/timex"

const TableNameBackupRecord = "backup_record"

// BackupRecord 已上传媒体项的去重记录
// (plan_id, media_id) 唯一，重复上传依赖该约束兜底
type BackupRecord struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	PlanID     int64      `gorm:"column:plan_id;not null;uniqueIndex:uk_plan_media,priority:1" json:"planId" form:"planId"`
	MediaID    string     `gorm:"column:media_id;not null;uniqueIndex:uk_plan_media,priority:2" json:"mediaId" form:"mediaId"`
	RunID      int64      `gorm:"column:run_id;not null;index:idx_run_id" json:"runId" form:"runId"`
	RemotePath string     `gorm:"column:remote_path;not null" json:"remotePath" form:"remotePath"`
	SizeBytes  int64      `gorm:"column:size_bytes" json:"sizeBytes" form:"sizeBytes"`
	CreatedAt  timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}

// TableName BackupRecord's table name
func (*BackupRecord) TableName() string {
	return TableNameBackupRecord
}

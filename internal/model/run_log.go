package model

import "github.com/haierkeys/media-share-backup-service/pkg/timex"

const TableNameRunLog = "run_log"

// RunLog 运行期间的结构化日志行
type RunLog struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	RunID     int64      `gorm:"column:run_id;not null;index:idx_run_id" json:"runId" form:"runId"`
	Level     string     `gorm:"column:level;not null" json:"level" form:"level"`
	Message   string     `gorm:"column:message;not null" json:"message" form:"message"`
	Category  string     `gorm:"column:category" json:"category" form:"category"`
	MediaID   string     `gorm:"column:media_id" json:"mediaId" form:"mediaId"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}

// TableName RunLog's table name
func (*RunLog) TableName() string {
	return TableNameRunLog
}

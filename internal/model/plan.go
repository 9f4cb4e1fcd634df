// Package model 定义数据模型
package model

import "github.com/haierkeys/media-share-backup-service/pkg/timex"

const TableNamePlan = "plan"

// Plan 备份计划数据表
type Plan struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	Name          string     `gorm:"column:name;not null" json:"name" form:"name"`
	ServerID      int64      `gorm:"column:server_id;not null;index:idx_server_id" json:"serverId" form:"serverId"`
	SourceType    string     `gorm:"column:source_type;not null" json:"sourceType" form:"sourceType"`
	SourceAlbumID string     `gorm:"column:source_album_id" json:"sourceAlbumId" form:"sourceAlbumId"`
	SourcePath    string     `gorm:"column:source_path" json:"sourcePath" form:"sourcePath"`
	DirTemplate   string     `gorm:"column:dir_template" json:"dirTemplate" form:"dirTemplate"`
	FileTemplate  string     `gorm:"column:file_template" json:"fileTemplate" form:"fileTemplate"`
	Frequency     string     `gorm:"column:frequency;not null" json:"frequency" form:"frequency"`
	TimeMinutes   int        `gorm:"column:time_minutes" json:"timeMinutes" form:"timeMinutes"`
	WeekdayMask   int        `gorm:"column:weekday_mask" json:"weekdayMask" form:"weekdayMask"`
	DayOfMonth    int        `gorm:"column:day_of_month" json:"dayOfMonth" form:"dayOfMonth"`
	IntervalHours int        `gorm:"column:interval_hours" json:"intervalHours" form:"intervalHours"`
	CronExpr      string     `gorm:"column:cron_expr" json:"cronExpr" form:"cronExpr"`
	IsEnabled     int64      `gorm:"column:is_enabled;default:1" json:"isEnabled" form:"isEnabled"`
	NextRunTime   int64      `gorm:"column:next_run_time;index:idx_next_run_time" json:"nextRunTime" form:"nextRunTime"`
	LastRunTime   int64      `gorm:"column:last_run_time" json:"lastRunTime" form:"lastRunTime"`
	IsDeleted     int64      `gorm:"column:is_deleted;default:0" json:"isDeleted" form:"isDeleted"`
	CreatedAt     timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt     timex.Time `gorm:"column:updated_at;type:datetime;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Plan's table name
func (*Plan) TableName() string {
	return TableNamePlan
}

package dto

import "github.com/haierkeys/media-share-backup-service/pkg/timex"

// PlanRequest 备份计划创建/更新请求
type PlanRequest struct {
	ID            int64  `json:"id" form:"id" example:"1"`
	Name          string `json:"name" form:"name" binding:"required" example:"Camera roll to NAS"`
	ServerID      int64  `json:"serverId" form:"serverId" binding:"required" example:"1"`
	SourceType    string `json:"sourceType" form:"sourceType" binding:"required,oneof=album folder" example:"album"`
	SourceAlbumID string `json:"sourceAlbumId" form:"sourceAlbumId" example:"camera"`
	SourcePath    string `json:"sourcePath" form:"sourcePath" example:"/data/photos"`
	DirTemplate   string `json:"dirTemplate" form:"dirTemplate" example:"{year}/{month}/{day}"`
	FileTemplate  string `json:"fileTemplate" form:"fileTemplate" example:"{timestamp}_{mediaId}.{ext}"`
	Frequency     string `json:"frequency" form:"frequency" binding:"required,oneof=daily weekly monthly interval_hours cron" example:"daily"`
	TimeMinutes   int    `json:"timeMinutes" form:"timeMinutes" binding:"min=0,max=1439" example:"180"`
	WeekdayMask   int    `json:"weekdayMask" form:"weekdayMask" binding:"weekdaymask" example:"62"`
	DayOfMonth    int    `json:"dayOfMonth" form:"dayOfMonth" binding:"min=0,max=31" example:"1"`
	IntervalHours int    `json:"intervalHours" form:"intervalHours" binding:"min=0,max=168" example:"6"`
	CronExpr      string `json:"cronExpr" form:"cronExpr" example:"30 3 * * 1-5"`
	IsEnabled     bool   `json:"isEnabled" form:"isEnabled" example:"true"`
}

// PlanGetRequest 备份计划查询请求
type PlanGetRequest struct {
	ID int64 `json:"id" form:"id" uri:"id" binding:"required" example:"1"`
}

// PlanDTO 备份计划 DTO
type PlanDTO struct {
	ID            int64      `json:"id"`            // 计划ID
	Name          string     `json:"name"`          // 计划名称
	ServerID      int64      `json:"serverId"`      // 目标服务器ID
	SourceType    string     `json:"sourceType"`    // 来源类型 (album, folder)
	SourceAlbumID string     `json:"sourceAlbumId"` // 相册标识
	SourcePath    string     `json:"sourcePath"`    // 本地目录
	DirTemplate   string     `json:"dirTemplate"`   // 目录模板
	FileTemplate  string     `json:"fileTemplate"`  // 文件名模板
	Frequency     string     `json:"frequency"`     // 调度频率
	TimeMinutes   int        `json:"timeMinutes"`   // 执行时刻（自零点的分钟数）
	WeekdayMask   int        `json:"weekdayMask"`   // 星期掩码，bit0 为周日
	DayOfMonth    int        `json:"dayOfMonth"`    // 每月执行日
	IntervalHours int        `json:"intervalHours"` // 小时间隔
	CronExpr      string     `json:"cronExpr"`      // 自定义 cron 表达式
	IsEnabled     bool       `json:"isEnabled"`     // 是否启用
	NextRunTime   timex.Time `json:"nextRunTime"`   // 下次运行时间
	LastRunTime   timex.Time `json:"lastRunTime"`   // 上次运行时间
	BackupCount   int64      `json:"backupCount"`   // 累计已备份数量
	CreatedAt     timex.Time `json:"createdAt"`     // 创建时间
	UpdatedAt     timex.Time `json:"updatedAt"`     // 更新时间
}

// Package domain 定义领域模型和接口
package domain

import (
	"time"

	"github.com/haierkeys/media-share-backup-service/pkg/recurrence"
)

// SourceType 媒体来源类型
type SourceType string

const (
	// SourceTypeAlbum 设备相册来源
	SourceTypeAlbum SourceType = "album"
	// SourceTypeFolder 本地目录来源
	SourceTypeFolder SourceType = "folder"
)

// Source 备份来源描述
type Source struct {
	Type SourceType `json:"type"`
	// AlbumID 相册来源的相册标识，folder 来源为空
	AlbumID string `json:"albumId"`
	// Path folder 来源的本地目录，album 来源为空
	Path string `json:"path"`
}

// Plan 备份计划
type Plan struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	ServerID     int64               `json:"serverId"`
	Source       Source              `json:"source"`
	DirTemplate  string              `json:"dirTemplate"`
	FileTemplate string              `json:"fileTemplate"`
	Recurrence   recurrence.Settings `json:"recurrence"`
	IsEnabled    bool                `json:"isEnabled"`
	// NextRunTime 下次调度时间戳，0 表示未调度
	NextRunTime int64     `json:"nextRunTime"`
	LastRunTime int64     `json:"lastRunTime"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

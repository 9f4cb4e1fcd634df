package domain

import (
	"context"
	"io"
	"time"
)

// MediaItem 一个待备份的媒体项
type MediaItem struct {
	// ID 来源内稳定唯一的标识，去重以 (planId, mediaId) 为键
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	MimeType    string    `json:"mimeType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CapturedAt  time.Time `json:"capturedAt"`
	Album       string    `json:"album"`

	// RelPath 来源根目录下的相对路径，斜杠分隔，打开内容流时定位文件
	RelPath string `json:"-"`
}

// MediaSource 枚举并打开某个来源下的媒体项
type MediaSource interface {
	// Supports 是否支持该来源类型
	Supports(t SourceType) bool

	// List 枚举来源下的全部媒体项
	List(ctx context.Context, source Source) ([]MediaItem, error)

	// Open 打开媒体项的内容流
	Open(ctx context.Context, source Source, item MediaItem) (io.ReadCloser, error)
}

// DiscoveredServer 子网发现的候选服务器
type DiscoveredServer struct {
	Host string `json:"host"`
	IP   string `json:"ip"`
}

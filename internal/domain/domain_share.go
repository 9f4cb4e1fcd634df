package domain

import (
	"context"
	"io"
	"time"
)

// ShareTarget 一次共享连接的完整参数
type ShareTarget struct {
	Host     string
	Port     int
	Share    string
	Domain   string
	User     string
	Password string
}

// ShareConn 已挂载的共享连接
type ShareConn interface {
	// Upload 将内容流写入远端相对路径，必要的父目录自动创建
	Upload(ctx context.Context, remotePath string, r io.Reader) (int64, error)

	Close() error
}

// ShareDialer 建立共享连接
type ShareDialer interface {
	Dial(ctx context.Context, target ShareTarget) (ShareConn, error)

	// TestConnect 连接并挂载共享，返回耗时
	TestConnect(ctx context.Context, target ShareTarget) (time.Duration, error)

	// ListShares 列出服务器上可见的共享名
	ListShares(ctx context.Context, target ShareTarget) ([]string, error)
}

// Credential 共享服务器凭证
type Credential struct {
	User     string `json:"user"`
	Password string `json:"password"`
	Domain   string `json:"domain"`
}

// CredentialStore 按别名存取的凭证存储
type CredentialStore interface {
	Save(alias string, cred *Credential) error

	// Load 别名不存在时返回 (nil, nil)
	Load(alias string) (*Credential, error)

	Delete(alias string) error
}

// ServerScanner 子网内探测候选服务器
type ServerScanner interface {
	Discover(ctx context.Context) ([]DiscoveredServer, error)
}

package service

import (
	"context"
	"io"
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/domain"
	"github.com/haierkeys/media-share-backup-service/pkg/smbshare"
)

// smbDialer 基于 smbshare 客户端实现 domain.ShareDialer
type smbDialer struct {
	dialTimeout   time.Duration
	uploadTimeout time.Duration
}

// NewSMBDialer 创建 SMB 连接器
// uploadTimeout 限制单个媒体项的上传耗时，0 表示不限制
func NewSMBDialer(dialTimeout time.Duration, uploadTimeout time.Duration) domain.ShareDialer {
	return &smbDialer{dialTimeout: dialTimeout, uploadTimeout: uploadTimeout}
}

func (d *smbDialer) client(target domain.ShareTarget) *smbshare.Client {
	return smbshare.NewClient(smbshare.Config{
		Host:        target.Host,
		Port:        target.Port,
		Share:       target.Share,
		Domain:      target.Domain,
		User:        target.User,
		Password:    target.Password,
		DialTimeout: d.dialTimeout,
	})
}

// Dial 建立共享连接
func (d *smbDialer) Dial(ctx context.Context, target domain.ShareTarget) (domain.ShareConn, error) {
	client := d.client(target)

	// 先完整测试一次挂载，连接级错误在这里统一暴露
	if _, err := client.TestConnect(ctx); err != nil {
		return nil, err
	}
	return &smbConn{client: client, uploadTimeout: d.uploadTimeout}, nil
}

// TestConnect 连接并挂载共享，返回耗时
func (d *smbDialer) TestConnect(ctx context.Context, target domain.ShareTarget) (time.Duration, error) {
	return d.client(target).TestConnect(ctx)
}

// ListShares 列出服务器上可见的共享名
func (d *smbDialer) ListShares(ctx context.Context, target domain.ShareTarget) ([]string, error) {
	return d.client(target).ListShares(ctx)
}

// smbConn 每次上传建立并释放一条会话
type smbConn struct {
	client        *smbshare.Client
	uploadTimeout time.Duration
}

func (c *smbConn) Upload(ctx context.Context, remotePath string, r io.Reader) (int64, error) {
	if c.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.uploadTimeout)
		defer cancel()
	}
	return c.client.Upload(ctx, remotePath, r, nil)
}

func (c *smbConn) Close() error {
	return nil
}

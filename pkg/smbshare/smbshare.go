// Package smbshare 封装 SMB 共享客户端
// 提供连接测试、共享枚举、目录列举与流式上传，失败统一走 Classify 分类
package smbshare

import (
	"context"
	"fmt"
	"io"
	"net"
	"path"
	"strings"
	"time"

	"github.com/hirochachacha/go-smb2"
	"github.com/pkg/errors"
)

// DefaultPort SMB 直连端口
const DefaultPort = 445

// Config SMB 连接配置
type Config struct {
	// Host 服务器地址，IP 或主机名
	Host string
	// Port 端口，0 表示 445
	Port int
	// Share 共享名称
	Share string
	// Domain NTLM 域，可为空
	Domain string
	// User 用户名
	User string
	// Password 密码
	Password string
	// DialTimeout TCP 建连超时，0 表示 10 秒
	DialTimeout time.Duration
}

// Entry 远端目录条目
type Entry struct {
	Name  string
	Size  int64
	IsDir bool
}

// Client SMB 客户端，每次操作建立并释放一条会话
type Client struct {
	conf Config
}

// NewClient 创建 SMB 客户端实例
func NewClient(conf Config) *Client {
	if conf.Port <= 0 {
		conf.Port = DefaultPort
	}
	if conf.DialTimeout <= 0 {
		conf.DialTimeout = 10 * time.Second
	}
	return &Client{conf: conf}
}

// session 建立 TCP 连接与 SMB 会话
func (c *Client) session(ctx context.Context) (net.Conn, *smb2.Session, error) {
	addr := fmt.Sprintf("%s:%d", c.conf.Host, c.conf.Port)

	d := net.Dialer{Timeout: c.conf.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	dialer := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:     c.conf.User,
			Password: c.conf.Password,
			Domain:   c.conf.Domain,
		},
	}

	sess, err := dialer.DialContext(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, sess, nil
}

// TestConnect 测试连通性并返回会话建立耗时
// 会完整走到挂载共享这一步，凭证与共享名错误都能在这里暴露
func (c *Client) TestConnect(ctx context.Context) (time.Duration, error) {
	start := time.Now()

	conn, sess, err := c.session(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	defer sess.Logoff()

	mount, err := sess.Mount(c.conf.Share)
	if err != nil {
		return 0, err
	}
	defer mount.Umount()

	if _, err := mount.WithContext(ctx).Stat("."); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// ListShares 枚举服务器上的共享名称
func (c *Client) ListShares(ctx context.Context) ([]string, error) {
	conn, sess, err := c.session(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	defer sess.Logoff()

	names, err := sess.ListSharenames()
	if err != nil {
		return nil, err
	}

	// 过滤管理共享（IPC$、C$ 等）
	var out []string
	for _, name := range names {
		if strings.HasSuffix(name, "$") {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// ListDir 列举共享上某个目录
func (c *Client) ListDir(ctx context.Context, dir string) ([]Entry, error) {
	conn, sess, err := c.session(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	defer sess.Logoff()

	mount, err := sess.Mount(c.conf.Share)
	if err != nil {
		return nil, err
	}
	defer mount.Umount()

	infos, err := mount.WithContext(ctx).ReadDir(toSMBPath(dir))
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{
			Name:  info.Name(),
			Size:  info.Size(),
			IsDir: info.IsDir(),
		})
	}
	return entries, nil
}

// Upload 将 r 的内容写入共享上的 remotePath，缺失的父目录会被创建
// progress 不为 nil 时按写入字节数回调
func (c *Client) Upload(ctx context.Context, remotePath string, r io.Reader, progress func(written int64)) (int64, error) {
	conn, sess, err := c.session(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	defer sess.Logoff()

	mount, err := sess.Mount(c.conf.Share)
	if err != nil {
		return 0, err
	}
	defer mount.Umount()

	// 文件操作跟随调用方上下文，超时或取消能中断传输中的写入
	share := mount.WithContext(ctx)

	smbPath := toSMBPath(remotePath)
	if dir := path.Dir(remotePath); dir != "." && dir != "/" {
		if err := share.MkdirAll(toSMBPath(dir), 0755); err != nil {
			return 0, errors.Wrap(err, "create remote directory")
		}
	}

	f, err := share.Create(smbPath)
	if err != nil {
		return 0, err
	}

	var w io.Writer = f
	if progress != nil {
		w = &progressWriter{w: f, fn: progress}
	}

	written, err := io.Copy(w, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// 半截文件没有价值，尽力清掉；清理不跟随已取消的上下文
		_ = mount.Remove(smbPath)
		return written, err
	}
	return written, nil
}

// toSMBPath 把规范化的 / 分隔路径转换为 SMB 侧使用的反斜杠路径
func toSMBPath(p string) string {
	return strings.ReplaceAll(strings.Trim(p, "/"), "/", `\`)
}

type progressWriter struct {
	w       io.Writer
	fn      func(written int64)
	written int64
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	p.fn(p.written)
	return n, err
}

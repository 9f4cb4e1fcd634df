package smbshare

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"syscall"

	"github.com/hirochachacha/go-smb2"
)

// FailureCategory 传输失败的固定分类
type FailureCategory string

const (
	// FailureHostUnreachable 主机不可达（解析失败、拒绝连接）
	FailureHostUnreachable FailureCategory = "host_unreachable"
	// FailureAuthentication 凭证错误
	FailureAuthentication FailureCategory = "authentication_failed"
	// FailureShareNotFound 共享名不存在
	FailureShareNotFound FailureCategory = "share_not_found"
	// FailurePermissionDenied 远端拒绝访问
	FailurePermissionDenied FailureCategory = "permission_denied"
	// FailureTimeout 操作超时
	FailureTimeout FailureCategory = "timeout"
	// FailureNetworkInterruption 传输中连接断开
	FailureNetworkInterruption FailureCategory = "network_interruption"
	// FailureUnknown 无法识别的错误
	FailureUnknown FailureCategory = "unknown"
)

// NT 状态码，SMB 协议层错误的一级判断依据
const (
	ntStatusLogonFailure     = 0xC000006D
	ntStatusAccessDenied     = 0xC0000022
	ntStatusBadNetworkName   = 0xC00000CC
	ntStatusPasswordExpired  = 0xC0000071
	ntStatusAccountDisabled  = 0xC0000072
	ntStatusObjectPathDenied = 0xC0000033
)

// Classify 将传输错误归入固定分类
// 先按具体错误类型判断，再按 NT 状态码，最后按消息子串兜底；永不失败
func Classify(err error) FailureCategory {
	if err == nil {
		return FailureUnknown
	}

	// 超时优先：context 超时与网络超时都归为 Timeout
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return FailureHostUnreachable
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return FailureHostUnreachable
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) || errors.Is(err, net.ErrClosed) {
		return FailureNetworkInterruption
	}

	var respErr *smb2.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.Code {
		case ntStatusLogonFailure, ntStatusPasswordExpired, ntStatusAccountDisabled:
			return FailureAuthentication
		case ntStatusBadNetworkName:
			return FailureShareNotFound
		case ntStatusAccessDenied, ntStatusObjectPathDenied:
			return FailurePermissionDenied
		}
	}

	// 文案兜底，大小写不敏感匹配协议状态短语
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "logon failure") || strings.Contains(msg, "logon_failure"):
		return FailureAuthentication
	case strings.Contains(msg, "bad network name") || strings.Contains(msg, "bad_network_name"):
		return FailureShareNotFound
	case strings.Contains(msg, "access denied") || strings.Contains(msg, "access_denied"):
		return FailurePermissionDenied
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		return FailureTimeout
	case strings.Contains(msg, "connection reset") || strings.Contains(msg, "broken pipe"):
		return FailureNetworkInterruption
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no route to host"):
		return FailureHostUnreachable
	default:
		return FailureUnknown
	}
}

// Hint 返回面向用户的恢复提示
func (c FailureCategory) Hint() string {
	switch c {
	case FailureHostUnreachable:
		return "Server unreachable, check the host address and that the server is powered on"
	case FailureAuthentication:
		return "Authentication failed, re-enter the username and password"
	case FailureShareNotFound:
		return "Share not found, check the share name on the server"
	case FailurePermissionDenied:
		return "Permission denied, check the account's access rights on the share"
	case FailureTimeout:
		return "Operation timed out, check the network connection"
	case FailureNetworkInterruption:
		return "Connection interrupted during transfer, retry the operation"
	case FailureUnknown:
		return "Unknown error, check the run log for details"
	default:
		return "Unknown error, check the run log for details"
	}
}

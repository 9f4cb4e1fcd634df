package smbshare

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/hirochachacha/go-smb2"
	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o deadline reached" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyTypedErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want FailureCategory
	}{
		{"dns", &net.DNSError{Err: "no such host", Name: "nas.local"}, FailureHostUnreachable},
		{"refused", fmt.Errorf("dial tcp: %w", syscall.ECONNREFUSED), FailureHostUnreachable},
		{"reset", fmt.Errorf("write: %w", syscall.ECONNRESET), FailureNetworkInterruption},
		{"net timeout", timeoutErr{}, FailureTimeout},
		{"ctx deadline", context.DeadlineExceeded, FailureTimeout},
		{"logon failure", &smb2.ResponseError{Code: ntStatusLogonFailure}, FailureAuthentication},
		{"bad network name", &smb2.ResponseError{Code: ntStatusBadNetworkName}, FailureShareNotFound},
		{"access denied", &smb2.ResponseError{Code: ntStatusAccessDenied}, FailurePermissionDenied},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
}

func TestClassifyMessageFallback(t *testing.T) {
	cases := []struct {
		msg  string
		want FailureCategory
	}{
		{"response error: Logon Failure", FailureAuthentication},
		{"response error: BAD NETWORK NAME", FailureShareNotFound},
		{"smb: Access Denied", FailurePermissionDenied},
		{"operation timed out", FailureTimeout},
		{"read: connection reset by peer", FailureNetworkInterruption},
		{"something completely different", FailureUnknown},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(errors.New(tc.msg)), tc.msg)
	}
}

// 分类是全函数：任何输入都有结果，不会 panic
func TestClassifyTotal(t *testing.T) {
	assert.Equal(t, FailureUnknown, Classify(nil))
	assert.NotEmpty(t, FailureUnknown.Hint())
	for _, c := range []FailureCategory{
		FailureHostUnreachable, FailureAuthentication, FailureShareNotFound,
		FailurePermissionDenied, FailureTimeout, FailureNetworkInterruption, FailureUnknown,
	} {
		assert.NotEmpty(t, c.Hint())
	}
}

package discovery

import (
	"context"
	"net"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScanner(reachable map[string]bool, names map[string][]string) *Scanner {
	s := NewScanner(Config{ProbeTimeout: time.Millisecond})
	s.localAddr = func() (net.IP, *net.IPNet, error) {
		_, ipNet, _ := net.ParseCIDR("192.168.1.0/24")
		return net.ParseIP("192.168.1.10").To4(), ipNet, nil
	}
	s.dial = func(ctx context.Context, addr string, timeout time.Duration) bool {
		host, _, _ := net.SplitHostPort(addr)
		return reachable[host]
	}
	s.lookupAddr = func(ip string) []string {
		return names[ip]
	}
	s.lookupHost = func(host string) string { return host }
	return s
}

func TestDiscoverFindsReachableHosts(t *testing.T) {
	s := testScanner(
		map[string]bool{"192.168.1.20": true, "192.168.1.30": true},
		map[string][]string{"192.168.1.20": {"nas.lan."}},
	)

	servers, err := s.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, servers, 2)

	// 结果按主机标签排序
	assert.Equal(t, "192.168.1.30", servers[0].Host)
	assert.Equal(t, "nas.lan", servers[1].Host)
	assert.Equal(t, "192.168.1.20", servers[1].IP)
}

func TestDiscoverExcludesSelfAndDuplicates(t *testing.T) {
	// 本机地址可达也不应出现在结果里
	s := testScanner(map[string]bool{"192.168.1.10": true}, nil)

	servers, err := s.Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, servers)
}

func TestDiscoverNoDuplicateIPs(t *testing.T) {
	reachable := map[string]bool{}
	for _, ip := range []string{"192.168.1.2", "192.168.1.3", "192.168.1.4"} {
		reachable[ip] = true
	}
	s := testScanner(reachable, nil)

	servers, err := s.Discover(context.Background())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, srv := range servers {
		assert.False(t, seen[srv.IP], "duplicate IP %s", srv.IP)
		seen[srv.IP] = true
	}
	assert.Len(t, servers, 3)
}

func TestDiscoverConcurrencyBounded(t *testing.T) {
	var inflight, peak int64

	s := testScanner(nil, nil)
	s.dial = func(ctx context.Context, addr string, timeout time.Duration) bool {
		cur := atomic.AddInt64(&inflight, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt64(&inflight, -1)
		return false
	}

	_, err := s.Discover(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(16))
	assert.Greater(t, atomic.LoadInt64(&peak), int64(1))
}

func TestDiscoverFallbackHostsWhenSubnetEmpty(t *testing.T) {
	var mu sync.Mutex
	var probed []string

	s := NewScanner(Config{FallbackHosts: []string{"nas.local", "fileserver.local"}})
	s.localAddr = func() (net.IP, *net.IPNet, error) {
		_, ipNet, _ := net.ParseCIDR("192.168.1.0/24")
		return net.ParseIP("192.168.1.10").To4(), ipNet, nil
	}
	s.dial = func(ctx context.Context, addr string, timeout time.Duration) bool {
		host, _, _ := net.SplitHostPort(addr)
		mu.Lock()
		probed = append(probed, host)
		mu.Unlock()
		return host == "nas.local"
	}
	s.lookupAddr = func(ip string) []string { return nil }
	s.lookupHost = func(host string) string { return "192.168.1.55" }

	servers, err := s.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, "nas.local", servers[0].Host)

	mu.Lock()
	defer mu.Unlock()
	sort.Strings(probed)
	assert.Contains(t, probed, "fileserver.local")
}

func TestEnumerateHostsClampsToSlash24(t *testing.T) {
	// /16 网段收紧到 /24，扫描量封顶 254
	_, ipNet, _ := net.ParseCIDR("10.0.5.0/16")
	local := net.ParseIP("10.0.5.77").To4()

	hosts := enumerateHosts(local, ipNet)
	assert.Len(t, hosts, 253) // 254 减去本机

	for _, h := range hosts {
		assert.NotEqual(t, "10.0.5.77", h)
		assert.Contains(t, h, "10.0.5.")
	}
}

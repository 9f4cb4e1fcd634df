// Package discovery 在本地子网内探测可用的 SMB 服务器
// 扫描范围被钳制在一个 /24 内，单次调用返回一批完整结果，不做流式输出
package discovery

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Server 探测到的候选服务器，仅用于配置流程，不落库
type Server struct {
	// Host 主机标签，反查到主机名时用主机名，否则用 IP 文本
	Host string `json:"host"`
	// IP 点分 IPv4 地址
	IP string `json:"ip"`
}

// Config 扫描参数
type Config struct {
	// Port 探测端口，0 表示 445
	Port int
	// ProbeTimeout 单个探测的超时，0 表示 350ms
	ProbeTimeout time.Duration
	// Concurrency 并发探测上限，0 表示 16
	Concurrency int64
	// FallbackHosts 子网扫描无结果时探测的常见主机名
	FallbackHosts []string
}

// DefaultFallbackHosts 常见的局域网文件服务器主机名
var DefaultFallbackHosts = []string{
	"nas.local",
	"fileserver.local",
	"server.local",
	"diskstation.local",
	"storage.local",
}

// Scanner 子网扫描器
type Scanner struct {
	conf Config

	// 便于测试替换的钩子
	dial       func(ctx context.Context, addr string, timeout time.Duration) bool
	lookupAddr func(ip string) []string
	lookupHost func(host string) string
	localAddr  func() (net.IP, *net.IPNet, error)
}

// NewScanner 创建扫描器
func NewScanner(conf Config) *Scanner {
	if conf.Port <= 0 {
		conf.Port = 445
	}
	if conf.ProbeTimeout <= 0 {
		conf.ProbeTimeout = 350 * time.Millisecond
	}
	if conf.Concurrency <= 0 {
		conf.Concurrency = 16
	}
	if conf.FallbackHosts == nil {
		conf.FallbackHosts = DefaultFallbackHosts
	}
	return &Scanner{
		conf:       conf,
		dial:       dialProbe,
		lookupAddr: lookupAddr,
		lookupHost: lookupHost,
		localAddr:  localIPv4,
	}
}

// dialProbe 对端口做一次短超时 TCP 探测，任何失败都视为不存在
func dialProbe(ctx context.Context, addr string, timeout time.Duration) bool {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func lookupAddr(ip string) []string {
	names, err := net.LookupAddr(ip)
	if err != nil {
		return nil
	}
	return names
}

// lookupHost 将主机名解析为 IPv4 文本，失败时原样返回主机名
func lookupHost(host string) string {
	if resolved, err := net.ResolveIPAddr("ip4", host); err == nil {
		return resolved.String()
	}
	return host
}

// localIPv4 找到第一个非回环的 IPv4 地址及其网段
func localIPv4() (net.IP, *net.IPNet, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, nil, err
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4, ipNet, nil
		}
	}
	return nil, nil, fmt.Errorf("no non-loopback IPv4 interface found")
}

// Discover 扫描本地 /24 网段，返回可达的 SMB 候选服务器
// 子网无结果时回退探测常见主机名；探测失败从不作为错误抛出
func (s *Scanner) Discover(ctx context.Context) ([]Server, error) {
	localIP, ipNet, err := s.localAddr()
	if err != nil {
		// 没有可用网卡时直接走主机名回退
		return s.probeFallbackHosts(ctx), nil
	}

	candidates := enumerateHosts(localIP, ipNet)
	servers := s.probeAll(ctx, candidates)

	if len(servers) == 0 {
		servers = s.probeFallbackHosts(ctx)
	}

	sort.Slice(servers, func(i, j int) bool { return servers[i].Host < servers[j].Host })
	return servers, nil
}

// enumerateHosts 枚举本机所在 /24 中除本机外的全部主机地址
// 前缀长于 /24 时按实际网段枚举，短于 /24 时收紧到 /24，扫描量封顶 254
func enumerateHosts(localIP net.IP, ipNet *net.IPNet) []string {
	ones, _ := ipNet.Mask.Size()
	if ones < 24 {
		ones = 24
	}
	mask := net.CIDRMask(ones, 32)
	network := localIP.Mask(mask)

	hostBits := 32 - ones
	total := (1 << hostBits) - 2 // 去掉网络地址和广播地址
	if total < 0 {
		total = 0
	}

	var hosts []string
	base := network.To4()
	for i := 1; i <= total; i++ {
		ip := net.IPv4(base[0], base[1], base[2], base[3]+byte(i))
		if ip.Equal(localIP) {
			continue
		}
		hosts = append(hosts, ip.String())
	}
	return hosts
}

// probeAll 并发探测候选地址，信号量限制在途探测数量
// 所有探测一起发出，整批等完才返回
func (s *Scanner) probeAll(ctx context.Context, ips []string) []Server {
	sem := semaphore.NewWeighted(s.conf.Concurrency)

	var (
		mu        sync.Mutex
		reachable = map[string]struct{}{}
		wg        sync.WaitGroup
	)

	for _, ip := range ips {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(ip string) {
			defer wg.Done()
			defer sem.Release(1)
			if s.dial(ctx, net.JoinHostPort(ip, fmt.Sprintf("%d", s.conf.Port)), s.conf.ProbeTimeout) {
				mu.Lock()
				reachable[ip] = struct{}{}
				mu.Unlock()
			}
		}(ip)
	}
	wg.Wait()

	servers := make([]Server, 0, len(reachable))
	for ip := range reachable {
		servers = append(servers, Server{Host: s.hostLabel(ip), IP: ip})
	}
	return servers
}

// hostLabel 反查主机名作为标签，拿不到就用 IP 文本
func (s *Scanner) hostLabel(ip string) string {
	for _, name := range s.lookupAddr(ip) {
		name = strings.TrimSuffix(name, ".")
		if name != "" && name != ip {
			return name
		}
	}
	return ip
}

// probeFallbackHosts 探测常见主机名清单
func (s *Scanner) probeFallbackHosts(ctx context.Context) []Server {
	var (
		mu      sync.Mutex
		seen    = map[string]struct{}{}
		servers []Server
		wg      sync.WaitGroup
	)
	sem := semaphore.NewWeighted(s.conf.Concurrency)

	for _, host := range s.conf.FallbackHosts {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(host string) {
			defer wg.Done()
			defer sem.Release(1)
			if !s.dial(ctx, net.JoinHostPort(host, fmt.Sprintf("%d", s.conf.Port)), s.conf.ProbeTimeout) {
				return
			}
			ip := s.lookupHost(host)
			mu.Lock()
			defer mu.Unlock()
			if _, dup := seen[ip]; dup {
				return
			}
			seen[ip] = struct{}{}
			servers = append(servers, Server{Host: host, IP: ip})
		}(host)
	}
	wg.Wait()
	return servers
}

// Package config 定义服务层配置
package config

// BackupConfig 备份执行配置
type BackupConfig struct {
	// MediaLibraryPath 相册来源的媒体库根目录
	MediaLibraryPath string `yaml:"media-library-path" default:"storage/media"`
	// CredentialPath 加密凭证目录
	CredentialPath string `yaml:"credential-path" default:"storage/credentials"`
	// DialTimeout 建立 SMB 连接的超时（秒）
	DialTimeout int `yaml:"dial-timeout" default:"10"`
	// UploadTimeout 单个媒体项上传超时（秒），0 不限制
	UploadTimeout int `yaml:"upload-timeout" default:"600"`
	// DeviceLabel 路径模板 {device} 的取值，空时使用机器标识
	DeviceLabel string `yaml:"device-label"`
}

// DiscoveryConfig 子网发现配置
type DiscoveryConfig struct {
	// Port 探测端口
	Port int `yaml:"port" default:"445"`
	// ProbeTimeoutMs 单个探测超时（毫秒）
	ProbeTimeoutMs int `yaml:"probe-timeout-ms" default:"350"`
	// Concurrency 并发探测上限
	Concurrency int `yaml:"concurrency" default:"16"`
	// FallbackHosts 子网无结果时探测的主机名
	FallbackHosts []string `yaml:"fallback-hosts"`
}

package dto

// VersionDTO 服务端版本信息 DTO
type VersionDTO struct {
	Version   string `json:"version"`   // 版本号
	GitTag    string `json:"gitTag"`    // Git 标签
	BuildTime string `json:"buildTime"` // 构建时间
	OS        string `json:"os"`        // 宿主操作系统
}

package dto

// DiscoveredServerDTO 子网发现的候选服务器 DTO
type DiscoveredServerDTO struct {
	Host string `json:"host"` // 主机标签
	IP   string `json:"ip"`   // IPv4 地址
}

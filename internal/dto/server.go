package dto

import "github.com/haierkeys/media-share-backup-service/pkg/timex"

// ServerRequest 服务器创建/更新请求
type ServerRequest struct {
	ID       int64  `json:"id" form:"id" example:"1"`
	Name     string `json:"name" form:"name" binding:"required" example:"Home NAS"`
	Host     string `json:"host" form:"host" binding:"required" example:"192.168.1.20"`
	Port     int    `json:"port" form:"port" example:"445"`
	Share    string `json:"share" form:"share" binding:"required" example:"photos"`
	BasePath string `json:"basePath" form:"basePath" example:"backups"`
	Domain   string `json:"domain" form:"domain" example:"WORKGROUP"`
	User     string `json:"user" form:"user" binding:"required" example:"backup"`
	Password string `json:"password" form:"password" example:"secret"`
}

// ServerGetRequest 服务器查询请求
type ServerGetRequest struct {
	ID int64 `json:"id" form:"id" uri:"id" binding:"required" example:"1"`
}

// ServerDTO 服务器 DTO，凭证不回传
type ServerDTO struct {
	ID              int64      `json:"id"`              // 服务器ID
	Name            string     `json:"name"`            // 显示名称
	Host            string     `json:"host"`            // 主机
	Port            int        `json:"port"`            // 端口
	Share           string     `json:"share"`           // 共享名
	BasePath        string     `json:"basePath"`        // 共享内基础路径
	Domain          string     `json:"domain"`          // 认证域
	User            string     `json:"user"`            // 用户名
	LastTestTime    timex.Time `json:"lastTestTime"`    // 最近测试时间
	LastTestOk      bool       `json:"lastTestOk"`      // 最近测试是否成功
	LastTestLatency int64      `json:"lastTestLatency"` // 最近测试耗时（毫秒）
	LastTestError   string     `json:"lastTestError"`   // 最近测试错误分类
	LastTestHint    string     `json:"lastTestHint"`    // 恢复提示
	CreatedAt       timex.Time `json:"createdAt"`       // 创建时间
	UpdatedAt       timex.Time `json:"updatedAt"`       // 更新时间
}

// ServerTestDTO 连接测试结果 DTO
type ServerTestDTO struct {
	Ok        bool     `json:"ok"`        // 是否成功
	LatencyMs int64    `json:"latencyMs"` // 连接耗时（毫秒）
	Category  string   `json:"category"`  // 失败分类
	Error     string   `json:"error"`     // 错误描述
	Hint      string   `json:"hint"`      // 恢复提示
	Shares    []string `json:"shares"`    // 可见共享名
}

package domain

import "time"

// Server SMB 共享服务器配置
// 凭证通过 CredentialAlias 关联加密存储，领域对象不携带明文
type Server struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Host            string `json:"host"`
	Port            int    `json:"port"`
	Share           string `json:"share"`
	BasePath        string `json:"basePath"`
	Domain          string `json:"domain"`
	CredentialAlias string `json:"-"`

	// 最近一次连接测试的诊断信息
	LastTestTime    int64  `json:"lastTestTime"`
	LastTestOk      bool   `json:"lastTestOk"`
	LastTestLatency int64  `json:"lastTestLatency"`
	LastTestError   string `json:"lastTestError"`
	LastTestHint    string `json:"lastTestHint"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

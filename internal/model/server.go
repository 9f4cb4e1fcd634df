package model

import "github.com/haierkeys/media-share-backup-service/pkg/timex"

const TableNameServer = "server"

// Server SMB 服务器数据表，凭证只存别名不存明文
type Server struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	Name            string     `gorm:"column:name;not null" json:"name" form:"name"`
	Host            string     `gorm:"column:host;not null" json:"host" form:"host"`
	Port            int        `gorm:"column:port;default:445" json:"port" form:"port"`
	Share           string     `gorm:"column:share;not null" json:"share" form:"share"`
	BasePath        string     `gorm:"column:base_path" json:"basePath" form:"basePath"`
	Domain          string     `gorm:"column:domain" json:"domain" form:"domain"`
	CredentialAlias string     `gorm:"column:credential_alias;not null" json:"-" form:"-"`
	LastTestTime    int64      `gorm:"column:last_test_time" json:"lastTestTime" form:"lastTestTime"`
	LastTestOk      int64      `gorm:"column:last_test_ok" json:"lastTestOk" form:"lastTestOk"`
	LastTestLatency int64      `gorm:"column:last_test_latency" json:"lastTestLatency" form:"lastTestLatency"`
	LastTestError   string     `gorm:"column:last_test_error" json:"lastTestError" form:"lastTestError"`
	LastTestHint    string     `gorm:"column:last_test_hint" json:"lastTestHint" form:"lastTestHint"`
	IsDeleted       int64      `gorm:"column:is_deleted;default:0" json:"isDeleted" form:"isDeleted"`
	CreatedAt       timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt       timex.Time `gorm:"column:updated_at;type:datetime;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Server's table name
func (*Server) TableName() string {
	return TableNameServer
}

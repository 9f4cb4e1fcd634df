package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldPlanID 备份计划 ID 字段
	FieldPlanID = "planId"

	// FieldRunID 运行记录 ID 字段
	FieldRunID = "runId"

	// FieldServerID 服务器 ID 字段
	FieldServerID = "serverId"

	// FieldHost 主机地址字段
	FieldHost = "host"

	// FieldShare 共享名称字段
	FieldShare = "share"

	// FieldMediaID 媒体条目 ID 字段
	FieldMediaID = "mediaId"

	// FieldRemotePath 远端路径字段
	FieldRemotePath = "remotePath"

	// FieldStatus 状态字段
	FieldStatus = "status"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldError 错误信息字段
	FieldError = "error"

	// FieldCategory 失败分类字段
	FieldCategory = "category"
)

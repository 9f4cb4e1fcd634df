package code

// 成功码
var (
	Success       = NewSuss(200, lang{en: "Success", zh_cn: "成功"})
	SuccessCreate = NewSuss(201, lang{en: "Created", zh_cn: "创建成功"})
	SuccessUpdate = NewSuss(202, lang{en: "Updated", zh_cn: "更新成功"})
	SuccessDelete = NewSuss(203, lang{en: "Deleted", zh_cn: "删除成功"})
)

// 通用错误码
var (
	ErrorInvalidParams    = NewError(10001, lang{en: "Invalid params", zh_cn: "入参错误"})
	ErrorServerInternal   = NewError(10002, lang{en: "Internal server error", zh_cn: "服务内部错误"})
	ErrorTooManyRequests  = NewError(10003, lang{en: "Too many requests", zh_cn: "请求过多"})
	ErrorNotAuthToken     = NewError(10004, lang{en: "Auth token required", zh_cn: "缺少访问令牌"})
	ErrorInvalidAuthToken = NewError(10005, lang{en: "Invalid auth token", zh_cn: "访问令牌无效"})
	ErrorNotFoundAPI      = NewError(10006, lang{en: "API not found", zh_cn: "接口不存在"})
	ErrorServiceUnhealthy = NewError(10007, lang{en: "Service unhealthy", zh_cn: "服务不健康"})
)

// 计划相关错误码
var (
	ErrorPlanNotFound          = NewError(20001, lang{en: "Backup plan not found", zh_cn: "备份计划不存在"})
	ErrorPlanDisabled          = NewError(20002, lang{en: "Backup plan is disabled", zh_cn: "备份计划已停用"})
	ErrorPlanSourceUnsupported = NewError(20003, lang{en: "Backup plan source type is not supported", zh_cn: "备份计划的来源类型不受支持"})
)

// 服务器相关错误码
var (
	ErrorServerNotFound      = NewError(21001, lang{en: "Server not found", zh_cn: "服务器不存在"})
	ErrorServerTestFailed    = NewError(21002, lang{en: "Server connection test failed", zh_cn: "服务器连接测试失败"})
	ErrorCredentialsNotFound = NewError(21003, lang{en: "Credentials unavailable, please re-save the server", zh_cn: "凭证不可用，请重新保存服务器"})
)

// 运行相关错误码
var (
	ErrorRunNotFound       = NewError(22001, lang{en: "Run not found", zh_cn: "运行记录不存在"})
	ErrorRunNotRunning     = NewError(22002, lang{en: "Run is not in progress", zh_cn: "运行未在进行中"})
	ErrorRunAlreadyRunning = NewError(22003, lang{en: "Plan already has a run in progress", zh_cn: "该计划已有运行在进行中"})
)

// 发现相关错误码
var (
	ErrorDiscoveryFailed = NewError(23001, lang{en: "Network discovery failed", zh_cn: "网络发现失败"})
)

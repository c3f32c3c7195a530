package constants

// 分析任务状态机：
// PENDING → PROCESSING → COMPLETED / FAILED
// DUPLICATE_FILE_SKIPPED 是上传入口的终态，不进入流水线
const (
	StatusPending              = "PENDING"
	StatusProcessing           = "PROCESSING"
	StatusCompleted            = "COMPLETED"
	StatusFailed               = "FAILED"
	StatusDuplicateFileSkipped = "DUPLICATE_FILE_SKIPPED"
)

// Redis键命名：模块前缀 + 实体
const (
	AppPrefix        = "app"
	FileModulePrefix = "file"
	UserModulePrefix = "user"

	EntityDedupSet  = "dedup_set"
	EntityDashboard = "dashboard"

	// 原始文件MD5去重集合
	// 格式: app:file:dedup_set
	KeyFileMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet

	// 用户看板统计缓存，%s为用户ID
	// 格式: app:user:dashboard:<user_id>
	KeyUserDashboard = AppPrefix + ":" + UserModulePrefix + ":" + EntityDashboard + ":%s"
)

// 上传限制
const (
	DefaultMaxUploadSizeMB = 10
)

// 允许上传的简历文件后缀
var AllowedResumeExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
}

package constants

// Session and context keys
const (
	SessionCookieName  = "task_session"
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// Record ID range; IDs are drawn from [MinRecordID, MaxRecordID).
const (
	MinRecordID       = 100000
	MaxRecordID       = 999999
	MaxIDAttempts     = 32
	MinProgress       = 0
	MaxProgress       = 100
	MaxSuggestedTasks = 20
)

// MaxLeadDays bounds the business days a deadline may lie ahead.
const MaxLeadDays = 365

// Persisted collection files
const (
	TasksFile      = "tasks.json"
	UsersFile      = "users.json"
	ComplaintsFile = "complaints.json"
)

// Upload limits
const (
	UploadFormField           = "document"
	CompletionUploadFormField = "completionDocument"
	UploadURLPrefix           = "/uploads"
)

// Fiscal years start in July; reports start at this fiscal year.
const (
	FiscalYearStartMonth = 7
	FirstFiscalYear      = 2024
)

package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// SessionHeader 路由状态按会话隔离
const SessionHeader = "X-Session-ID"

const (
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeZip  = "application/zip"
	MimeOLE  = "application/x-ole-storage"
)

var AllowedWorkbookExtensions = []string{".xlsx", ".xlsm", ".xls"}

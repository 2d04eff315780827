package model

import "time"

// SubmissionRecord 后端收到的一批报表行（按课程与报表类型）
type SubmissionRecord struct {
	UUIDBase
	CourseCode string `gorm:"type:varchar(32);index:idx_course_report" json:"courseCode"`
	ReportType string `gorm:"type:varchar(16);index:idx_course_report" json:"reportType"`
	RowCount   int    `json:"rowCount"`
	// Rows 原始 JSON 行
	Rows string `gorm:"type:longtext" json:"-"`
	// Summary 由提交行重新汇总的班级统计 JSON
	Summary string `gorm:"type:text" json:"-"`
}

func (SubmissionRecord) TableName() string {
	return "co_submission_records"
}

type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionSucceeded SubmissionStatus = "succeeded"
	SubmissionFailed    SubmissionStatus = "failed"
)

// SubmissionNotification 异步推送的终态通知，保存在 Redis
type SubmissionNotification struct {
	ID         string           `json:"id"`
	Session    string           `json:"session"`
	Assessment string           `json:"assessment"`
	Target     string           `json:"target"`
	RowCount   int              `json:"rowCount"`
	Status     SubmissionStatus `json:"status"`
	Message    string           `json:"message,omitempty"`
	Error      string           `json:"error,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	FinishedAt *time.Time       `json:"finishedAt,omitempty"`
}

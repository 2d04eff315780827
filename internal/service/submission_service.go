package service

import (
	"co_attainment_backend/internal/attainment"
	"co_attainment_backend/internal/model"
	"co_attainment_backend/internal/util"
	"co_attainment_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// SubmissionStore 提交记录持久化
type SubmissionStore interface {
	Create(ctx context.Context, record *model.SubmissionRecord) error
	FindByID(ctx context.Context, id string) (*model.SubmissionRecord, error)
	LatestByCourse(ctx context.Context, courseCode, reportType string) (*model.SubmissionRecord, error)
}

// SubmissionService 接收计算结果的后端：重算班级汇总并保存整批行
type SubmissionService struct {
	store SubmissionStore
}

func NewSubmissionService(store SubmissionStore) *SubmissionService {
	return &SubmissionService{store: store}
}

// SubmissionReceipt 后端回执
type SubmissionReceipt struct {
	ID         string                   `json:"id"`
	CourseCode string                   `json:"courseCode,omitempty"`
	ReportType attainment.Key           `json:"reportType"`
	Received   int                      `json:"received"`
	Summary    *attainment.ClassSummary `json:"summary,omitempty"`
}

func (s *SubmissionService) Accept(ctx context.Context, courseCode, key string, rows []attainment.OutputRow) (*SubmissionReceipt, error) {
	def, err := lookupDefinition(key)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, util.ErrNoRows
	}

	receipt := &SubmissionReceipt{CourseCode: courseCode, ReportType: def.Key, Received: len(rows)}
	if !def.Split {
		results := make([]attainment.StudentResult, 0, len(rows))
		for _, r := range rows {
			results = append(results, attainment.ParseOutputRow(def, r))
		}
		summary := attainment.Summarize(def, results)
		receipt.Summary = &summary
	}

	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}
	record := &model.SubmissionRecord{
		CourseCode: courseCode,
		ReportType: string(def.Key),
		RowCount:   len(rows),
		Rows:       string(rowsJSON),
	}
	if receipt.Summary != nil {
		summaryJSON, err := json.Marshal(receipt.Summary)
		if err != nil {
			return nil, fmt.Errorf("encode summary: %w", err)
		}
		record.Summary = string(summaryJSON)
	}

	if err := s.store.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}
	receipt.ID = record.ID

	logger.Log.Info("submission stored",
		zap.String("id", record.ID),
		zap.String("course", courseCode),
		zap.String("report", string(def.Key)),
		zap.Int("rows", len(rows)),
	)
	return receipt, nil
}

// StoredSubmission 已保存的提交，行与汇总已解码
type StoredSubmission struct {
	Record  *model.SubmissionRecord  `json:"record"`
	Rows    []attainment.OutputRow   `json:"rows"`
	Summary *attainment.ClassSummary `json:"summary,omitempty"`
}

func (s *SubmissionService) Get(ctx context.Context, id string) (*StoredSubmission, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeRecord(record)
}

// Latest 课程某类报表最近一次提交
func (s *SubmissionService) Latest(ctx context.Context, courseCode, key string) (*StoredSubmission, error) {
	def, err := lookupDefinition(key)
	if err != nil {
		return nil, err
	}
	record, err := s.store.LatestByCourse(ctx, courseCode, string(def.Key))
	if err != nil {
		return nil, err
	}
	return decodeRecord(record)
}

func decodeRecord(record *model.SubmissionRecord) (*StoredSubmission, error) {
	out := &StoredSubmission{Record: record}
	if err := json.Unmarshal([]byte(record.Rows), &out.Rows); err != nil {
		return nil, fmt.Errorf("decode rows of %s: %w", record.ID, err)
	}
	if record.Summary != "" {
		out.Summary = &attainment.ClassSummary{}
		if err := json.Unmarshal([]byte(record.Summary), out.Summary); err != nil {
			return nil, fmt.Errorf("decode summary of %s: %w", record.ID, err)
		}
	}
	return out, nil
}

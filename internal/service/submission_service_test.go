package service

import (
	"co_attainment_backend/internal/attainment"
	"co_attainment_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func computedRows(t *testing.T, key string) []attainment.OutputRow {
	t.Helper()
	report, err := NewAttainmentService(newMemoryRouting()).Compute(context.Background(), "s", key, test1Rows(), "")
	require.NoError(t, err)
	return report.Rows
}

// 经 JSON 往返后数值变为 float64，与 HTTP 请求体一致
func viaJSON(t *testing.T, rows []attainment.OutputRow) []attainment.OutputRow {
	t.Helper()
	data, err := json.Marshal(rows)
	require.NoError(t, err)
	var out []attainment.OutputRow
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestAcceptRederivesSummary(t *testing.T) {
	store := &memorySubmissions{}
	svc := NewSubmissionService(store)

	receipt, err := svc.Accept(context.Background(), "CS101", "test1", viaJSON(t, computedRows(t, "test1")))
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.ID)
	assert.Equal(t, 2, receipt.Received)
	require.NotNil(t, receipt.Summary)
	assert.Equal(t, 2, receipt.Summary.TotalPresent)
	assert.Equal(t, 2, receipt.Summary.AttendedCounts[attainment.CO1])
	assert.Equal(t, 0, receipt.Summary.AchievedCounts[attainment.CO1])

	require.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, "CS101", rec.CourseCode)
	assert.Equal(t, "test1", rec.ReportType)
	assert.Equal(t, 2, rec.RowCount)
	assert.Contains(t, rec.Rows, "MARKS OBTAINED CO1")
	assert.Contains(t, rec.Summary, "attendedCounts")
}

func TestAcceptSplitReportHasNoSummary(t *testing.T) {
	store := &memorySubmissions{}
	receipt, err := NewSubmissionService(store).Accept(context.Background(), "", "ip", computedRows(t, "ip"))
	require.NoError(t, err)
	assert.Nil(t, receipt.Summary)
	assert.Empty(t, store.records[0].Summary)
}

func TestAcceptErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewSubmissionService(&memorySubmissions{})

	_, err := svc.Accept(ctx, "CS101", "test1", nil)
	assert.ErrorIs(t, err, util.ErrNoRows)

	_, err = svc.Accept(ctx, "CS101", "quiz", computedRows(t, "test1"))
	assert.ErrorIs(t, err, util.ErrUnknownAssessment)

	failing := NewSubmissionService(&memorySubmissions{err: errors.New("db down")})
	_, err = failing.Accept(ctx, "CS101", "test1", computedRows(t, "test1"))
	assert.ErrorContains(t, err, "db down")
}

func TestGetAndLatestDecodeStoredRecord(t *testing.T) {
	ctx := context.Background()
	svc := NewSubmissionService(&memorySubmissions{})

	first, err := svc.Accept(ctx, "CS101", "test1", computedRows(t, "test1"))
	require.NoError(t, err)
	second, err := svc.Accept(ctx, "CS101", "test1", computedRows(t, "test1")[:1])
	require.NoError(t, err)

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, got.Rows, 2)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 2, got.Summary.AttendedCounts[attainment.CO1])

	latest, err := svc.Latest(ctx, "CS101", "test1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.Record.ID)
	assert.Len(t, latest.Rows, 1)

	_, err = svc.Latest(ctx, "CS101", "test2")
	assert.ErrorIs(t, err, util.ErrSubmissionNotFound)
	_, err = svc.Latest(ctx, "CS101", "quiz")
	assert.ErrorIs(t, err, util.ErrUnknownAssessment)
	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, util.ErrSubmissionNotFound)
}

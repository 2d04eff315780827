package service

import (
	"co_attainment_backend/internal/attainment"
	"co_attainment_backend/internal/util"
	"co_attainment_backend/pkg/logger"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	summarySheet = "Summary"
	maxSheetName = 31
	defaultSheet = "Sheet1"
)

// WorkbookService Excel 工作簿的导入导出
type WorkbookService struct{}

func NewWorkbookService() *WorkbookService {
	return &WorkbookService{}
}

// ReadRows 读取第一个工作表：首个非空行为表头，其后每个非空行为一名学生
func (s *WorkbookService) ReadRows(r io.Reader) ([]attainment.StudentRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidWorkbook, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Log.Warn("close workbook", zap.Error(err))
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: no sheets", util.ErrInvalidWorkbook)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheetName, err)
	}

	var header []string
	out := make([]attainment.StudentRow, 0, len(rows))
	for _, row := range rows {
		if blank(row) {
			continue
		}
		if header == nil {
			header = make([]string, len(row))
			for i, h := range row {
				header[i] = strings.TrimSpace(h)
			}
			continue
		}
		student := make(attainment.StudentRow, len(header))
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			student[header[i]] = cellValue(cell)
		}
		out = append(out, student)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cellValue 数字单元格转为数值，其余保留去空白后的文本
func cellValue(cell string) any {
	t := strings.TrimSpace(cell)
	if n, err := strconv.Atoi(t); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return f
	}
	return t
}

// Export 单个评估的报表：明细表 + 班级汇总
func (s *WorkbookService) Export(report *attainment.Report) ([]byte, error) {
	return s.Workbook([]attainment.Report{*report})
}

// Workbook 每个评估一个工作表，最后附汇总表
func (s *WorkbookService) Workbook(reports []attainment.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, report := range reports {
		name := sheetName(report)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
		if err := writeTable(f, name, report.Table); err != nil {
			return nil, fmt.Errorf("write sheet %s: %w", name, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	if err := writeSummary(f, reports); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sheetName(report attainment.Report) string {
	name := report.Title
	if name == "" {
		name = string(report.Assessment)
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

func writeTable(f *excelize.File, sheet string, table attainment.Table) error {
	header := make([]any, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

var summaryColumns = []any{"Assessment", "CO", "Attended", "Achieved", "Remedial", "Achieved %", "Attainment Level"}

func writeSummary(f *excelize.File, reports []attainment.Report) error {
	if err := f.SetSheetRow(summarySheet, "A1", &summaryColumns); err != nil {
		return err
	}
	line := 2
	put := func(row []any) error {
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		line++
		return f.SetSheetRow(summarySheet, cell, &row)
	}

	for _, r := range reports {
		sum := r.Summary
		if sum == nil {
			continue
		}
		for _, c := range attainment.AllCOs {
			if sum.AttendedCounts[c] == 0 {
				continue
			}
			row := []any{r.Title, c.String(), sum.AttendedCounts[c], sum.AchievedCounts[c], sum.RemedialCounts[c],
				attainment.DisplayPercent(sum.AchievedPercents[c]), sum.AttainmentLevels[c].Cell()}
			if err := put(row); err != nil {
				return err
			}
		}
		overall := []any{r.Title, "Overall", sum.TotalAttended, sum.TotalAchieved, sum.TotalRemedial,
			attainment.DisplayPercent(sum.OverallPercent), sum.OverallLevel.Cell()}
		if err := put(overall); err != nil {
			return err
		}
	}
	return nil
}

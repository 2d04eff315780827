package attainment

import (
	"fmt"
	"strconv"
	"strings"
)

func AllocatedField(c CO) string { return "MARKS ALLOCATED " + c.String() }
func ObtainedField(c CO) string  { return "MARKS OBTAINED " + c.String() }
func PercentField(c CO) string   { return "CO ATTAINMENT % " + c.String() }
func LevelField(c CO) string     { return "ATTAINMENT " + c.String() }

// OutputRow is the per-student contract shared with the report renderer and
// the backend. Unused outcomes are blank strings.
type OutputRow map[string]any

// Table is the flat tabular form handed to the report renderer.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Report 单次评估的完整计算结果
type Report struct {
	Assessment Key             `json:"assessment"`
	Title      string          `json:"title"`
	Empty      bool            `json:"empty"`
	RoutedCO   *CO             `json:"routedCO,omitempty"`
	Summary    *ClassSummary   `json:"summary,omitempty"`
	Rows       []OutputRow     `json:"rows"`
	Table      Table           `json:"table"`
	Remedial   []RemedialEntry `json:"remedial,omitempty"`
}

func identity(row StudentRow) OutputRow {
	return OutputRow{
		FieldSerialNo: row.SerialNo(),
		FieldRegNo:    row.RegNo(),
		FieldName:     row.Name(),
	}
}

// OutputRows renders results in the output row schema.
func OutputRows(def *Definition, results []StudentResult) []OutputRow {
	out := make([]OutputRow, 0, len(results))
	for _, r := range results {
		row := identity(r.Row)
		for _, c := range AllCOs {
			m := r.Marks[c]
			if !m.Used() {
				row[AllocatedField(c)], row[ObtainedField(c)], row[PercentField(c)] = "", "", ""
				continue
			}
			row[AllocatedField(c)] = m.Allocated
			row[ObtainedField(c)] = m.Obtained
			row[PercentField(c)] = percentCell(m)
		}
		if r.Absent {
			row[def.OutputScoreField] = AbsentMark
		} else {
			row[def.OutputScoreField] = r.Score
		}
		out = append(out, row)
	}
	return out
}

func percentCell(m COMark) any {
	if !m.HasPercent {
		return ""
	}
	if m.Percent == float64(int(m.Percent)) {
		return int(m.Percent)
	}
	return m.Percent
}

// Columns is the header of the tabular report for def.
func Columns(def *Definition) []string {
	if def.Split {
		return []string{FieldSerialNo, FieldRegNo, FieldName, fieldIP1, fieldIP2, def.OutputScoreField}
	}
	cols := []string{FieldSerialNo, FieldRegNo, FieldName}
	for _, field := range []func(CO) string{AllocatedField, ObtainedField, PercentField, LevelField} {
		for _, c := range AllCOs {
			cols = append(cols, field(c))
		}
	}
	return append(cols, def.OutputScoreField)
}

// Tabulate lays output rows out under Columns, deriving the individual
// attainment levels from the percentage cells.
func Tabulate(def *Definition, rows []OutputRow) Table {
	t := Table{Columns: Columns(def), Rows: make([][]any, 0, len(rows))}
	for _, row := range rows {
		cells := make([]any, 0, len(t.Columns))
		for _, col := range t.Columns {
			if c, ok := levelColumn(col); ok {
				p, defined := cellNumber(row[PercentField(c)])
				cells = append(cells, IndividualLevel(p, defined).Cell())
				continue
			}
			v, ok := row[col]
			if !ok || v == nil {
				v = ""
			}
			cells = append(cells, v)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func levelColumn(col string) (CO, bool) {
	rest, ok := strings.CutPrefix(col, "ATTAINMENT ")
	if !ok {
		return 0, false
	}
	c, err := ParseCO(rest)
	return c, err == nil
}

// Assemble builds the report for an allocated assessment.
func Assemble(def *Definition, results []StudentResult, summary ClassSummary) Report {
	rows := OutputRows(def, results)
	return Report{
		Assessment: def.Key,
		Title:      def.Title,
		Empty:      len(results) == 0,
		Summary:    &summary,
		Rows:       rows,
		Table:      Tabulate(def, rows),
	}
}

// AssembleSplit builds the report for the combined internal-performance sheet.
func AssembleSplit(def *Definition, rows []StudentRow) Report {
	out := SplitRows(def, rows)
	return Report{
		Assessment: def.Key,
		Title:      def.Title,
		Empty:      len(rows) == 0,
		Rows:       out,
		Table:      Tabulate(def, out),
	}
}

// ParseOutputRow reads a submitted output row back into a result so the
// class summary can be derived again. Blank or unparsable percentages stay undefined.
func ParseOutputRow(def *Definition, row OutputRow) StudentResult {
	raw := NewRawScore(row[def.OutputScoreField])
	res := StudentResult{Row: StudentRow(row), Raw: raw, Absent: raw.Absent()}
	if !res.Absent {
		res.Score = max(raw.Marks(), 0)
	}
	for _, c := range AllCOs {
		alloc, ok := cellNumber(row[AllocatedField(c)])
		if !ok || alloc <= 0 {
			continue
		}
		obtained, _ := cellNumber(row[ObtainedField(c)])
		m := COMark{Allocated: int(alloc), Obtained: min(max(int(obtained), 0), int(alloc))}
		m.Percent, m.HasPercent = cellNumber(row[PercentField(c)])
		res.Marks[c] = m
	}
	return res
}

func cellNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(n)), 64)
		return f, err == nil
	}
}

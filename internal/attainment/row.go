package attainment

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Output identity keys.
const (
	FieldSerialNo = "S.No"
	FieldRegNo    = "Reg.No"
	FieldName     = "Name"
)

var (
	serialNoKeys = []string{"S. No.", "S.No"}
	regNoKeys    = []string{"Reg. No.", "Reg.No"}
)

// AbsentMark replaces the raw score of an absent student in output rows.
const AbsentMark = "AB"

// StudentRow 上传的一行原始数据（表头 -> 单元格）
type StudentRow map[string]any

func (r StudentRow) first(keys ...string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v
		}
	}
	return ""
}

func (r StudentRow) SerialNo() any {
	return r.first(serialNoKeys...)
}

func (r StudentRow) RegNo() any {
	return r.first(regNoKeys...)
}

func (r StudentRow) Name() any {
	return r.first(FieldName)
}

// Raw returns the raw score cell for field; a missing cell reads as blank.
func (r StudentRow) Raw(field string) RawScore {
	v, ok := r[field]
	if !ok || v == nil {
		return RawScore{value: ""}
	}
	return RawScore{value: v}
}

// RawScore is an uploaded mark cell: a number, a numeric string or an absence token.
type RawScore struct {
	value any
}

func NewRawScore(v any) RawScore {
	if v == nil {
		v = ""
	}
	return RawScore{value: v}
}

func (s RawScore) text() string {
	switch v := s.value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Absent reports whether the cell is blank, "ab" or "absent" (any case).
func (s RawScore) Absent() bool {
	t := strings.ToLower(strings.TrimSpace(s.text()))
	return t == "" || t == "ab" || t == "absent"
}

// Marks parses the leading integer of the cell; anything unparsable is 0.
func (s RawScore) Marks() int {
	switch v := s.value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(math.Trunc(v))
	case float32:
		return int(math.Trunc(float64(v)))
	}
	return leadingInt(s.text())
}

// Value is the cell as uploaded.
func (s RawScore) Value() any {
	return s.value
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

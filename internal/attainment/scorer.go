package attainment

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Level is an attainment level; NoLevel marks an undefined one.
type Level int

const NoLevel Level = -1

func (l Level) Defined() bool {
	return l >= 0
}

// MarshalJSON writes null for an undefined level.
func (l Level) MarshalJSON() ([]byte, error) {
	if !l.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(int(l))
}

func (l *Level) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = NoLevel
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*l = Level(n)
	return nil
}

// Cell renders the level for a report cell; undefined is blank.
func (l Level) Cell() any {
	if !l.Defined() {
		return ""
	}
	return int(l)
}

// IndividualLevel: 1 when the student's own percentage meets 60, else 0.
func IndividualLevel(percent float64, defined bool) Level {
	if !defined {
		return NoLevel
	}
	if percent >= DefaultTargetPercent {
		return 1
	}
	return 0
}

// ClassLevel grades the share of attended students who achieved the target.
func ClassLevel(achievedPercent float64) Level {
	switch {
	case achievedPercent >= 70:
		return 3
	case achievedPercent >= 60:
		return 2
	case achievedPercent >= 50:
		return 1
	default:
		return 0
	}
}

// ClassLevelOf returns NoLevel when nobody attended.
func ClassLevelOf(achieved, attended int) Level {
	if attended <= 0 {
		return NoLevel
	}
	return ClassLevel(AchievedPercent(achieved, attended))
}

// AchievedPercent is achieved/attended×100 without intermediate rounding error on exact ratios.
func AchievedPercent(achieved, attended int) float64 {
	if attended <= 0 {
		return 0
	}
	return float64(achieved*100) / float64(attended)
}

// Precision is a named rounding policy for percentages. Per-student
// percentages and class percentages use different policies and are
// reported in separate fields.
type Precision int

const (
	// PrecisionRounded rounds half up to an integer.
	PrecisionRounded Precision = iota
	// PrecisionFixed2 keeps two decimals.
	PrecisionFixed2
)

func (p Precision) Apply(v float64) float64 {
	switch p {
	case PrecisionFixed2:
		f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
		return f
	default:
		return math.Floor(v + 0.5)
	}
}

// Format renders v under the policy without stripping zeros ("60", "66.67", "60.00").
func (p Precision) Format(v float64) string {
	if p == PrecisionFixed2 {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strconv.FormatFloat(p.Apply(v), 'f', 0, 64)
}

// DisplayPercent strips trailing zero decimals: "60.00" -> "60", "62.50" -> "62.5".
func DisplayPercent(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

package attainment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func test1Def(t *testing.T) *Definition {
	t.Helper()
	def, ok := Lookup("test1")
	require.True(t, ok)
	return def
}

func TestSummarizeCountsAbsenteesAsAttended(t *testing.T) {
	def := test1Def(t)
	rows := []StudentRow{
		{"S.No": 1, "Reg. No.": "R1", "Name": "A", "PT1 (50)": 50},
		{"S.No": 2, "Reg. No.": "R2", "Name": "B", "PT1 (50)": "25"},
		{"S.No": 3, "Reg. No.": "R3", "Name": "C", "PT1 (50)": "AB"},
	}
	s := Summarize(def, Evaluate(def, rows, 0))

	assert.Equal(t, 2, s.TotalPresent)
	assert.Equal(t, COValues[int]{3, 3, 3, 0, 0}, s.AttendedCounts)
	assert.Equal(t, COValues[int]{1, 1, 1, 0, 0}, s.AchievedCounts)
	assert.Equal(t, COValues[int]{2, 2, 2, 0, 0}, s.RemedialCounts)
	assert.Equal(t, COValues[Level]{0, 0, 0, NoLevel, NoLevel}, s.AttainmentLevels)
	assert.Equal(t, "33.33", s.AchievedPercents[CO1])
	assert.Equal(t, "", s.AchievedPercents[CO4])

	assert.Equal(t, 9, s.TotalAttended)
	assert.Equal(t, 3, s.TotalAchieved)
	assert.Equal(t, 6, s.TotalRemedial)
	assert.Equal(t, "33.33", s.OverallPercent)
	assert.Equal(t, Level(0), s.OverallLevel)
	assert.Equal(t, DefaultTargetPercent, s.TargetPercent)
}

func TestSummarizeClassLevels(t *testing.T) {
	def := test1Def(t)
	var rows []StudentRow
	// seven full marks, three zeros
	for i := 0; i < 10; i++ {
		score := 0
		if i < 7 {
			score = 50
		}
		rows = append(rows, StudentRow{"PT1 (50)": score})
	}
	s := Summarize(def, Evaluate(def, rows, 0))
	assert.Equal(t, Level(3), s.AttainmentLevels[CO1])
	assert.Equal(t, "70.00", s.AchievedPercents[CO1])
	assert.Equal(t, 10, s.TotalPresent)
}

func TestSummarizeUndefinedPercentIsRemedial(t *testing.T) {
	def := test1Def(t)
	results := []StudentResult{{
		Raw:   NewRawScore(10),
		Marks: COValues[COMark]{CO1: {Allocated: 20, Obtained: 15}},
	}}
	s := Summarize(def, results)
	assert.Equal(t, 1, s.AttendedCounts[CO1])
	assert.Equal(t, 0, s.AchievedCounts[CO1])
	assert.Equal(t, 1, s.RemedialCounts[CO1])
}

func TestSummarizeEmpty(t *testing.T) {
	def := test1Def(t)
	s := Summarize(def, nil)
	assert.Equal(t, 0, s.TotalPresent)
	assert.Equal(t, NoLevel, s.OverallLevel)
	assert.Equal(t, "", s.OverallPercent)
	for _, c := range AllCOs {
		assert.Equal(t, NoLevel, s.AttainmentLevels[c])
	}
}

func TestEvaluateDerivesSplitColumns(t *testing.T) {
	ip1, _ := Lookup("ip1")
	ip2, _ := Lookup("ip2")
	rows := []StudentRow{{"IP (20)": 15}, {"IP (20)": "ab"}, {"IP1": 9, "IP (20)": 15}}

	r1 := Evaluate(ip1, rows, CO1)
	assert.Equal(t, 7, r1[0].Marks[CO1].Obtained)
	assert.True(t, r1[1].Absent)
	assert.Equal(t, 10, r1[1].Marks[CO1].Allocated)
	assert.Equal(t, 9, r1[2].Marks[CO1].Obtained)

	r2 := Evaluate(ip2, rows, CO5)
	assert.Equal(t, 8, r2[0].Marks[CO5].Obtained)
	assert.Equal(t, 80.0, r2[0].Marks[CO5].Percent)
}

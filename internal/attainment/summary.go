package attainment

// StudentResult is one uploaded row after allocation.
type StudentResult struct {
	Row    StudentRow      `json:"row"`
	Raw    RawScore        `json:"-"`
	Absent bool            `json:"absent"`
	Score  int             `json:"score"`
	Marks  COValues[COMark] `json:"marks"`
}

// Evaluate allocates every row of an upload. routed is the override outcome
// and is ignored unless the definition has an override.
func Evaluate(def *Definition, rows []StudentRow, routed CO) []StudentResult {
	results := make([]StudentResult, 0, len(rows))
	for _, row := range rows {
		raw := scoreCell(def, row)
		res := StudentResult{Row: row, Raw: raw, Absent: raw.Absent()}
		if !res.Absent {
			res.Score = max(raw.Marks(), 0)
		}
		switch {
		case def.Override != nil:
			res.Marks = AllocateOverride(res.Score, routed, def.Override.Capacity)
		case len(def.Buckets) > 0:
			res.Marks = Allocate(res.Score, def.Buckets)
		}
		results = append(results, res)
	}
	return results
}

// scoreCell reads the definition's raw field. IP1/IP2 fall back to halving
// the combined internal-performance mark when the split column is missing.
func scoreCell(def *Definition, row StudentRow) RawScore {
	if _, ok := row[def.ScoreField]; ok || def.Override == nil {
		return row.Raw(def.ScoreField)
	}
	if _, ok := row[fieldIPCombined]; !ok {
		return row.Raw(def.ScoreField)
	}
	ip1, ip2, absent := SplitInternal(row.Raw(fieldIPCombined))
	if absent {
		return NewRawScore(AbsentMark)
	}
	if def.ScoreField == fieldIP2 {
		return NewRawScore(ip2)
	}
	return NewRawScore(ip1)
}

// ClassSummary 班级层面的 CO 达成统计
type ClassSummary struct {
	Assessment       Key              `json:"assessment"`
	TargetPercent    float64          `json:"targetPercent"`
	TotalPresent     int              `json:"totalPresent"`
	AttendedCounts   COValues[int]    `json:"attendedCounts"`
	AchievedCounts   COValues[int]    `json:"achievedCounts"`
	RemedialCounts   COValues[int]    `json:"remedialCounts"`
	AchievedPercents COValues[string] `json:"achievedPercents"`
	AttainmentLevels COValues[Level]  `json:"attainmentLevels"`

	TotalAttended  int    `json:"totalAttended"`
	TotalAchieved  int    `json:"totalAchieved"`
	TotalRemedial  int    `json:"totalRemedial"`
	OverallPercent string `json:"overallPercent"`
	OverallLevel   Level  `json:"overallLevel"`

	SelectedCO *CO `json:"selectedCO,omitempty"`
}

// Summarize builds the class summary in a single pass over results.
// Absent students still occupy their allocated capacity: they count as
// attended but not as present.
func Summarize(def *Definition, results []StudentResult) ClassSummary {
	target := def.Target()
	s := ClassSummary{Assessment: def.Key, TargetPercent: target}

	for _, r := range results {
		if !r.Absent {
			s.TotalPresent++
		}
		for _, c := range AllCOs {
			m := r.Marks[c]
			if !m.Used() {
				continue
			}
			s.AttendedCounts[c]++
			if m.HasPercent && m.Percent >= target {
				s.AchievedCounts[c]++
			} else {
				s.RemedialCounts[c]++
			}
		}
	}

	for _, c := range AllCOs {
		s.TotalAttended += s.AttendedCounts[c]
		s.TotalAchieved += s.AchievedCounts[c]
		s.TotalRemedial += s.RemedialCounts[c]
		if s.AttendedCounts[c] == 0 {
			s.AttainmentLevels[c] = NoLevel
			continue
		}
		pct := AchievedPercent(s.AchievedCounts[c], s.AttendedCounts[c])
		s.AchievedPercents[c] = PrecisionFixed2.Format(pct)
		s.AttainmentLevels[c] = ClassLevel(pct)
	}

	s.OverallLevel = NoLevel
	if s.TotalAttended > 0 {
		pct := PrecisionFixed2.Apply(AchievedPercent(s.TotalAchieved, s.TotalAttended))
		s.OverallPercent = PrecisionFixed2.Format(pct)
		s.OverallLevel = ClassLevel(pct)
	}
	return s
}

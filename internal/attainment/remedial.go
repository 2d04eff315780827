package attainment

// RemedialDetail is one outcome on which a student fell below target.
// Percent is nil when the outcome was allocated but has no percentage.
type RemedialDetail struct {
	CO        CO       `json:"co"`
	Percent   *float64 `json:"percent"`
	Allocated int      `json:"allocated"`
	Obtained  int      `json:"obtained"`
}

// RemedialEntry 需要补课的学生及其未达标的 CO
type RemedialEntry struct {
	Row     StudentRow       `json:"row"`
	Details []RemedialDetail `json:"remedialCOsDetails"`
}

// FilterRemedial screens present students, keeping input order. A CO is
// flagged when it is allocated, matches filter and its percentage is below
// target; an allocated CO without a percentage is flagged only when
// undefinedIsRemedial is set.
func FilterRemedial(results []StudentResult, target float64, filter COFilter, undefinedIsRemedial bool) []RemedialEntry {
	out := make([]RemedialEntry, 0)
	for _, r := range results {
		if r.Absent {
			continue
		}
		var details []RemedialDetail
		for _, c := range AllCOs {
			m := r.Marks[c]
			if !m.Used() || !filter.Matches(c) {
				continue
			}
			d := RemedialDetail{CO: c, Allocated: m.Allocated, Obtained: m.Obtained}
			switch {
			case m.HasPercent && m.Percent < target:
				p := m.Percent
				d.Percent = &p
			case !m.HasPercent && undefinedIsRemedial:
			default:
				continue
			}
			details = append(details, d)
		}
		if len(details) > 0 {
			out = append(out, RemedialEntry{Row: r.Row, Details: details})
		}
	}
	return out
}

// Remedial applies FilterRemedial with the definition's own target and policy.
func (d *Definition) Remedial(results []StudentResult, filter COFilter) []RemedialEntry {
	return FilterRemedial(results, d.Target(), filter, d.UndefinedIsRemedial)
}

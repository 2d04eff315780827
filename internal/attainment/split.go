package attainment

// SplitInternal divides a combined internal-performance mark into its two
// halves, the first rounded down and the second up.
func SplitInternal(raw RawScore) (ip1, ip2 int, absent bool) {
	if raw.Absent() {
		return 0, 0, true
	}
	total := max(raw.Marks(), 0)
	return total / 2, total - total/2, false
}

// SplitRows produces the internal-performance sheet with IP1/IP2 columns.
func SplitRows(def *Definition, rows []StudentRow) []OutputRow {
	out := make([]OutputRow, 0, len(rows))
	for _, row := range rows {
		r := identity(row)
		ip1, ip2, absent := SplitInternal(row.Raw(def.ScoreField))
		if absent {
			r[fieldIP1], r[fieldIP2], r[def.OutputScoreField] = AbsentMark, AbsentMark, AbsentMark
		} else {
			r[fieldIP1], r[fieldIP2], r[def.OutputScoreField] = ip1, ip2, ip1+ip2
		}
		out = append(out, r)
	}
	return out
}

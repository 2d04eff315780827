package attainment

// COMark is one student's result on one outcome.
// Allocated == 0 means the assessment does not use the outcome.
type COMark struct {
	Allocated  int     `json:"allocated"`
	Obtained   int     `json:"obtained"`
	Percent    float64 `json:"percent"`
	HasPercent bool    `json:"hasPercent"`
}

func (m COMark) Used() bool {
	return m.Allocated > 0
}

// Level is the individual 0/1 attainment of this mark.
func (m COMark) Level() Level {
	return IndividualLevel(m.Percent, m.HasPercent)
}

func markOf(capacity, obtained int) COMark {
	m := COMark{Allocated: capacity, Obtained: obtained}
	if capacity > 0 {
		m.Percent = PrecisionRounded.Apply(float64(obtained) / float64(capacity) * 100)
		m.HasPercent = true
	}
	return m
}

// Allocate distributes score over buckets in order. Each bucket but the last
// takes its proportional share of what is left, floored and capped at its
// capacity; the last bucket absorbs the remainder up to its capacity.
// Scores outside [0, total] are clamped first.
func Allocate(score int, buckets []Bucket) COValues[COMark] {
	var out COValues[COMark]
	if len(buckets) == 0 {
		return out
	}

	remainingCapacity := 0
	for _, b := range buckets {
		remainingCapacity += b.Capacity
	}
	remaining := clamp(score, 0, remainingCapacity)

	for i, b := range buckets {
		var obtained int
		if i == len(buckets)-1 {
			obtained = min(b.Capacity, remaining)
		} else if remainingCapacity > 0 {
			obtained = min(b.Capacity, remaining*b.Capacity/remainingCapacity)
		}
		remaining -= obtained
		remainingCapacity -= b.Capacity
		out[b.CO] = markOf(b.Capacity, obtained)
	}
	return out
}

// AllocateOverride puts the whole score on one outcome.
func AllocateOverride(score int, co CO, capacity int) COValues[COMark] {
	var out COValues[COMark]
	if !co.Valid() || capacity <= 0 {
		return out
	}
	out[co] = markOf(capacity, clamp(score, 0, capacity))
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

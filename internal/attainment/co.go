package attainment

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CO 课程目标（Course Outcome），固定五个
type CO int

const (
	CO1 CO = iota
	CO2
	CO3
	CO4
	CO5
)

// NumCO is the size of the fixed outcome set.
const NumCO = 5

// AllCOs lists every outcome in report order.
var AllCOs = [NumCO]CO{CO1, CO2, CO3, CO4, CO5}

func (c CO) Valid() bool {
	return c >= CO1 && c <= CO5
}

func (c CO) String() string {
	if !c.Valid() {
		return fmt.Sprintf("CO(%d)", int(c))
	}
	return fmt.Sprintf("CO%d", int(c)+1)
}

func (c CO) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *CO) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCO(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCO accepts "CO1".."CO5", case-insensitively.
func ParseCO(s string) (CO, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, c := range AllCOs {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown course outcome %q", s)
}

// COValues holds one value per outcome and marshals as {"CO1": ..., "CO5": ...}.
type COValues[T any] [NumCO]T

func (v COValues[T]) MarshalJSON() ([]byte, error) {
	m := make(map[string]T, NumCO)
	for _, c := range AllCOs {
		m[c.String()] = v[c]
	}
	return json.Marshal(m)
}

func (v *COValues[T]) UnmarshalJSON(data []byte) error {
	var m map[string]T
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for k, val := range m {
		c, err := ParseCO(k)
		if err != nil {
			return err
		}
		v[c] = val
	}
	return nil
}

// FilterAll selects every outcome in the remedial filter.
const FilterAll = "All"

// COFilter is either "All" or a single outcome.
type COFilter struct {
	all bool
	co  CO
}

var AllFilter = COFilter{all: true}

func OnlyCO(c CO) COFilter {
	return COFilter{co: c}
}

// ParseCOFilter treats an empty string as "All".
func ParseCOFilter(s string) (COFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, FilterAll) {
		return AllFilter, nil
	}
	c, err := ParseCO(s)
	if err != nil {
		return COFilter{}, err
	}
	return OnlyCO(c), nil
}

func (f COFilter) Matches(c CO) bool {
	return f.all || f.co == c
}

func (f COFilter) String() string {
	if f.all {
		return FilterAll
	}
	return f.co.String()
}

// TiePolicy decides which candidate wins when class levels are equal.
type TiePolicy int

const (
	// PreferEarliest keeps the first minimum seen in candidate order.
	PreferEarliest TiePolicy = iota
	// PreferLatest lets a later candidate replace an equal minimum.
	PreferLatest
)

// CandidateSet is the closed subset of outcomes a test may route to.
// The zero value has no candidates and never selects anything.
type CandidateSet struct {
	cos []CO
	tie TiePolicy
}

// NewCandidateSet panics on an invalid or repeated outcome; sets are built from literals at init time.
func NewCandidateSet(tie TiePolicy, cos ...CO) CandidateSet {
	seen := make(map[CO]bool, len(cos))
	for _, c := range cos {
		if !c.Valid() || seen[c] {
			panic(fmt.Sprintf("attainment: invalid candidate %s", c))
		}
		seen[c] = true
	}
	return CandidateSet{cos: append([]CO(nil), cos...), tie: tie}
}

func (s CandidateSet) COs() []CO {
	return append([]CO(nil), s.cos...)
}

func (s CandidateSet) Contains(c CO) bool {
	for _, x := range s.cos {
		if x == c {
			return true
		}
	}
	return false
}

func (s CandidateSet) Tie() TiePolicy {
	return s.tie
}

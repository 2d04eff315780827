package attainment

import (
	"fmt"
	"strings"
)

// DefaultTargetPercent is the remedial threshold shared by every assessment.
const DefaultTargetPercent = 60.0

// Key identifies a built-in assessment.
type Key string

const (
	KeyTest1 Key = "test1"
	KeyTest2 Key = "test2"
	KeyIP    Key = "ip"
	KeyIP1   Key = "ip1"
	KeyIP2   Key = "ip2"
)

// Slot names one entry of the shared routing state.
type Slot string

const (
	SlotTest1 Slot = "lowestTest1AttainmentCO"
	SlotTest2 Slot = "lowestTest2AttainmentCO"
)

// Slots lists every routing slot.
var Slots = []Slot{SlotTest1, SlotTest2}

// Default is the outcome a reader falls back to when the slot is unset.
func (s Slot) Default() CO {
	if s == SlotTest2 {
		return CO4
	}
	return CO2
}

// Bucket is one (outcome, capacity) pair of a waterfall.
type Bucket struct {
	CO       CO  `json:"co"`
	Capacity int `json:"capacity"`
}

// Routing marks a test whose weakest candidate is published to Slot.
type Routing struct {
	Slot       Slot
	Candidates CandidateSet
}

// Override marks an assessment whose whole score goes to the outcome read from Slot.
type Override struct {
	Slot     Slot
	Capacity int
}

// Definition drives one pass of the engine for an assessment.
type Definition struct {
	Key   Key
	Title string
	// ScoreField is the raw-score column of the upload.
	ScoreField string
	// OutputScoreField carries the raw score in output rows.
	OutputScoreField string
	// Buckets is empty when Override is set.
	Buckets []Bucket
	Routing *Routing
	Override *Override
	// Split marks the combined internal-performance sheet that only divides marks.
	Split         bool
	TargetPercent float64
	// UndefinedIsRemedial also flags COs with allocation but no percentage.
	UndefinedIsRemedial bool
}

// Total is the assessment's fixed maximum.
func (d *Definition) Total() int {
	if d.Override != nil {
		return d.Override.Capacity
	}
	total := 0
	for _, b := range d.Buckets {
		total += b.Capacity
	}
	return total
}

func (d *Definition) Target() float64 {
	if d.TargetPercent <= 0 {
		return DefaultTargetPercent
	}
	return d.TargetPercent
}

// Validate checks the bucket layout; the built-ins always pass.
func (d *Definition) Validate() error {
	if d.Split {
		return nil
	}
	if d.Override != nil {
		if len(d.Buckets) > 0 {
			return fmt.Errorf("assessment %s: override and buckets are exclusive", d.Key)
		}
		if d.Override.Capacity <= 0 {
			return fmt.Errorf("assessment %s: override capacity must be positive", d.Key)
		}
		return nil
	}
	if len(d.Buckets) == 0 {
		return fmt.Errorf("assessment %s: no buckets", d.Key)
	}
	seen := make(map[CO]bool, len(d.Buckets))
	for _, b := range d.Buckets {
		if !b.CO.Valid() || seen[b.CO] {
			return fmt.Errorf("assessment %s: bad bucket %s", d.Key, b.CO)
		}
		if b.Capacity <= 0 {
			return fmt.Errorf("assessment %s: bucket %s has no capacity", d.Key, b.CO)
		}
		seen[b.CO] = true
	}
	if d.Routing != nil {
		for _, c := range d.Routing.Candidates.COs() {
			if !seen[c] {
				return fmt.Errorf("assessment %s: routing candidate %s has no bucket", d.Key, c)
			}
		}
	}
	return nil
}

const (
	fieldIPCombined = "IP (20)"
	fieldIP1        = "IP1"
	fieldIP2        = "IP2"
)

var builtins = map[Key]*Definition{
	KeyTest1: {
		Key:              KeyTest1,
		Title:            "Periodical Test 1",
		ScoreField:       "PT1 (50)",
		OutputScoreField: "PT1",
		Buckets:          []Bucket{{CO1, 20}, {CO2, 20}, {CO3, 10}},
		Routing:          &Routing{Slot: SlotTest1, Candidates: NewCandidateSet(PreferEarliest, CO1, CO2)},
		TargetPercent:    DefaultTargetPercent,
	},
	KeyTest2: {
		Key:              KeyTest2,
		Title:            "Periodical Test 2",
		ScoreField:       "PT2 (50)",
		OutputScoreField: "PT2",
		Buckets:          []Bucket{{CO3, 10}, {CO4, 20}, {CO5, 20}},
		Routing:          &Routing{Slot: SlotTest2, Candidates: NewCandidateSet(PreferLatest, CO4, CO5)},
		TargetPercent:    DefaultTargetPercent,
	},
	KeyIP: {
		Key:              KeyIP,
		Title:            "Internal Performance",
		ScoreField:       fieldIPCombined,
		OutputScoreField: fieldIPCombined,
		Split:            true,
		TargetPercent:    DefaultTargetPercent,
	},
	KeyIP1: {
		Key:                 KeyIP1,
		Title:               "Internal Performance 1",
		ScoreField:          fieldIP1,
		OutputScoreField:    "IP1 Marks",
		Override:            &Override{Slot: SlotTest1, Capacity: 10},
		TargetPercent:       DefaultTargetPercent,
		UndefinedIsRemedial: true,
	},
	KeyIP2: {
		Key:                 KeyIP2,
		Title:               "Internal Performance 2",
		ScoreField:          fieldIP2,
		OutputScoreField:    "IP2 Marks",
		Override:            &Override{Slot: SlotTest2, Capacity: 10},
		TargetPercent:       DefaultTargetPercent,
		UndefinedIsRemedial: true,
	},
}

// Order is the dependency order of the built-ins: tests publish before IP reads.
var Order = []Key{KeyTest1, KeyTest2, KeyIP, KeyIP1, KeyIP2}

// Lookup returns a copy of a built-in definition.
func Lookup(key string) (*Definition, bool) {
	d, ok := builtins[Key(strings.ToLower(strings.TrimSpace(key)))]
	if !ok {
		return nil, false
	}
	cp := *d
	cp.Buckets = append([]Bucket(nil), d.Buckets...)
	return &cp, true
}

// Definitions lists the built-ins in dependency order.
func Definitions() []*Definition {
	out := make([]*Definition, 0, len(Order))
	for _, k := range Order {
		d, _ := Lookup(string(k))
		out = append(out, d)
	}
	return out
}

package attainment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var test1Buckets = []Bucket{{CO1, 20}, {CO2, 20}, {CO3, 10}}

func TestAllocateWaterfall(t *testing.T) {
	marks := Allocate(25, test1Buckets)

	assert.Equal(t, COMark{Allocated: 20, Obtained: 10, Percent: 50, HasPercent: true}, marks[CO1])
	assert.Equal(t, COMark{Allocated: 20, Obtained: 10, Percent: 50, HasPercent: true}, marks[CO2])
	assert.Equal(t, COMark{Allocated: 10, Obtained: 5, Percent: 50, HasPercent: true}, marks[CO3])
	assert.False(t, marks[CO4].Used())
	assert.False(t, marks[CO5].HasPercent)
}

func TestAllocateBounds(t *testing.T) {
	zero := Allocate(0, test1Buckets)
	full := Allocate(50, test1Buckets)
	for _, b := range test1Buckets {
		assert.Equal(t, 0, zero[b.CO].Obtained, b.CO.String())
		assert.Equal(t, 0.0, zero[b.CO].Percent, b.CO.String())
		assert.True(t, zero[b.CO].HasPercent, b.CO.String())

		assert.Equal(t, b.Capacity, full[b.CO].Obtained, b.CO.String())
		assert.Equal(t, 100.0, full[b.CO].Percent, b.CO.String())
	}
}

func TestAllocateConservesScore(t *testing.T) {
	layouts := [][]Bucket{
		test1Buckets,
		{{CO3, 10}, {CO4, 20}, {CO5, 20}},
		{{CO1, 7}, {CO2, 3}, {CO3, 11}, {CO4, 1}, {CO5, 13}},
	}
	for _, buckets := range layouts {
		total := 0
		for _, b := range buckets {
			total += b.Capacity
		}
		for score := 0; score <= total; score++ {
			marks := Allocate(score, buckets)
			sum := 0
			for _, b := range buckets {
				m := marks[b.CO]
				require.LessOrEqual(t, m.Obtained, m.Allocated, "score %d %s", score, b.CO)
				require.GreaterOrEqual(t, m.Obtained, 0)
				require.Equal(t, b.Capacity, m.Allocated)
				sum += m.Obtained
			}
			require.Equal(t, score, sum, "score %d", score)
		}
	}
}

func TestAllocateClampsOutOfRangeScores(t *testing.T) {
	over := Allocate(80, test1Buckets)
	assert.Equal(t, 20, over[CO1].Obtained)
	assert.Equal(t, 20, over[CO2].Obtained)
	assert.Equal(t, 10, over[CO3].Obtained)

	neg := Allocate(-5, test1Buckets)
	assert.Equal(t, 0, neg[CO1].Obtained)
	assert.Equal(t, 0, neg[CO3].Obtained)
}

func TestAllocateOverride(t *testing.T) {
	marks := AllocateOverride(7, CO2, 10)
	assert.Equal(t, COMark{Allocated: 10, Obtained: 7, Percent: 70, HasPercent: true}, marks[CO2])
	for _, c := range []CO{CO1, CO3, CO4, CO5} {
		assert.False(t, marks[c].Used(), c.String())
	}

	capped := AllocateOverride(14, CO4, 10)
	assert.Equal(t, 10, capped[CO4].Obtained)
	assert.Equal(t, 100.0, capped[CO4].Percent)
}

func TestAllocatePercentRoundsHalfUp(t *testing.T) {
	// 1 of 8 is 12.5%
	marks := AllocateOverride(1, CO1, 8)
	assert.Equal(t, 13.0, marks[CO1].Percent)
}

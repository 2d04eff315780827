package attainment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levels(pairs map[CO]Level) COValues[Level] {
	v := COValues[Level]{NoLevel, NoLevel, NoLevel, NoLevel, NoLevel}
	for c, l := range pairs {
		v[c] = l
	}
	return v
}

func TestRouteSecondTestPrefersCO5OnTie(t *testing.T) {
	def, _ := Lookup("test2")
	cands := def.Routing.Candidates

	co, ok := Route(levels(map[CO]Level{CO4: 2, CO5: 2}), cands)
	assert.True(t, ok)
	assert.Equal(t, CO5, co)

	co, ok = Route(levels(map[CO]Level{CO4: 1, CO5: 2}), cands)
	assert.True(t, ok)
	assert.Equal(t, CO4, co)

	co, ok = Route(levels(map[CO]Level{CO4: 1}), cands)
	assert.True(t, ok)
	assert.Equal(t, CO4, co)

	co, ok = Route(levels(map[CO]Level{CO5: 0}), cands)
	assert.True(t, ok)
	assert.Equal(t, CO5, co)

	_, ok = Route(levels(nil), cands)
	assert.False(t, ok)
}

func TestRouteFirstTestPrefersEarliest(t *testing.T) {
	def, _ := Lookup("test1")
	cands := def.Routing.Candidates

	co, ok := Route(levels(map[CO]Level{CO1: 2, CO2: 2}), cands)
	assert.True(t, ok)
	assert.Equal(t, CO1, co)

	co, _ = Route(levels(map[CO]Level{CO1: 3, CO2: 1}), cands)
	assert.Equal(t, CO2, co)

	// CO3 is weaker but not a candidate
	co, _ = Route(levels(map[CO]Level{CO1: 3, CO2: 2, CO3: 0}), cands)
	assert.Equal(t, CO2, co)
}

func TestNewCandidateSetRejectsDuplicates(t *testing.T) {
	assert.Panics(t, func() { NewCandidateSet(PreferEarliest, CO1, CO1) })
	assert.Panics(t, func() { NewCandidateSet(PreferEarliest, CO(7)) })
}

func TestResolveFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRoutingStore()

	co, err := Resolve(ctx, store, SlotTest1)
	require.NoError(t, err)
	assert.Equal(t, CO2, co)

	co, err = Resolve(ctx, store, SlotTest2)
	require.NoError(t, err)
	assert.Equal(t, CO4, co)

	require.NoError(t, Publish(ctx, store, SlotTest1, CO1, true))
	co, _ = Resolve(ctx, store, SlotTest1)
	assert.Equal(t, CO1, co)

	require.NoError(t, Publish(ctx, store, SlotTest1, 0, false))
	co, _ = Resolve(ctx, store, SlotTest1)
	assert.Equal(t, CO2, co)
}

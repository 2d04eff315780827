package attainment

import (
	"context"
	"sync"
)

// Route picks the weakest candidate by class attainment level. Candidates
// without a defined level are skipped; ok is false when none has one.
func Route(levels COValues[Level], candidates CandidateSet) (co CO, ok bool) {
	best := NoLevel
	for _, c := range candidates.cos {
		l := levels[c]
		if !l.Defined() {
			continue
		}
		switch {
		case !ok, l < best:
			co, best, ok = c, l, true
		case l == best && candidates.tie == PreferLatest:
			co = c
		}
	}
	return co, ok
}

// RoutingStore is the shared routing state: one outcome per upstream test.
// Writers and readers are separate requests; the last write wins and no
// locking across requests is attempted.
type RoutingStore interface {
	Get(ctx context.Context, slot Slot) (co CO, ok bool, err error)
	Set(ctx context.Context, slot Slot, co CO) error
	Clear(ctx context.Context, slot Slot) error
}

// Publish writes a test's routing decision, or clears the slot when nothing was selected.
func Publish(ctx context.Context, store RoutingStore, slot Slot, co CO, ok bool) error {
	if !ok {
		return store.Clear(ctx, slot)
	}
	return store.Set(ctx, slot, co)
}

// Resolve reads slot and falls back to its default when unset.
func Resolve(ctx context.Context, store RoutingStore, slot Slot) (CO, error) {
	co, ok, err := store.Get(ctx, slot)
	if err != nil {
		return slot.Default(), err
	}
	if !ok {
		return slot.Default(), nil
	}
	return co, nil
}

// MemoryRoutingStore keeps slots in process memory for one offline session.
type MemoryRoutingStore struct {
	slots sync.Map
}

func NewMemoryRoutingStore() *MemoryRoutingStore {
	return &MemoryRoutingStore{}
}

func (m *MemoryRoutingStore) Get(_ context.Context, slot Slot) (CO, bool, error) {
	v, ok := m.slots.Load(slot)
	if !ok {
		return 0, false, nil
	}
	return v.(CO), true, nil
}

func (m *MemoryRoutingStore) Set(_ context.Context, slot Slot, co CO) error {
	m.slots.Store(slot, co)
	return nil
}

func (m *MemoryRoutingStore) Clear(_ context.Context, slot Slot) error {
	m.slots.Delete(slot)
	return nil
}

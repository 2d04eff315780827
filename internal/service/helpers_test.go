package service

import (
	"co_attainment_backend/internal/attainment"
	"co_attainment_backend/internal/model"
	"co_attainment_backend/internal/util"
	"context"
	"sync"
)

type memoryRouting struct {
	mu     sync.Mutex
	stores map[string]*attainment.MemoryRoutingStore
}

func newMemoryRouting() *memoryRouting {
	return &memoryRouting{stores: map[string]*attainment.MemoryRoutingStore{}}
}

func (m *memoryRouting) ForSession(session string) attainment.RoutingStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[session]
	if !ok {
		s = attainment.NewMemoryRoutingStore()
		m.stores[session] = s
	}
	return s
}

func (m *memoryRouting) Reset(_ context.Context, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, session)
	return nil
}

type memoryNotifications struct {
	mu    sync.Mutex
	items map[string]model.SubmissionNotification
}

func newMemoryNotifications() *memoryNotifications {
	return &memoryNotifications{items: map[string]model.SubmissionNotification{}}
}

func (m *memoryNotifications) Save(_ context.Context, n *model.SubmissionNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[n.ID] = *n
	return nil
}

func (m *memoryNotifications) Get(_ context.Context, id string) (*model.SubmissionNotification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.items[id]
	if !ok {
		return nil, util.ErrSubmissionNotFound
	}
	return &n, nil
}

type memorySubmissions struct {
	records []*model.SubmissionRecord
	err     error
}

func (m *memorySubmissions) Create(_ context.Context, r *model.SubmissionRecord) error {
	if m.err != nil {
		return m.err
	}
	if r.ID == "" {
		r.ID = model.GenerateUUID()
	}
	m.records = append(m.records, r)
	return nil
}

func (m *memorySubmissions) FindByID(_ context.Context, id string) (*model.SubmissionRecord, error) {
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, util.ErrSubmissionNotFound
}

func (m *memorySubmissions) LatestByCourse(_ context.Context, course, report string) (*model.SubmissionRecord, error) {
	for i := len(m.records) - 1; i >= 0; i-- {
		if r := m.records[i]; r.CourseCode == course && r.ReportType == report {
			return r, nil
		}
	}
	return nil, util.ErrSubmissionNotFound
}

// test1Rows: 20/50 gives 8/20, 8/20, 4/10 so both candidates sit at level 0
func test1Rows() []attainment.StudentRow {
	return []attainment.StudentRow{
		{"S.No": 1, "Reg.No": "R1", "Name": "A", "PT1 (50)": 20, "PT2 (50)": 50, "IP (20)": 16},
		{"S.No": 2, "Reg.No": "R2", "Name": "B", "PT1 (50)": 20, "PT2 (50)": 10, "IP (20)": 10},
	}
}

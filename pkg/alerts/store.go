package alerts

import (
	"context"
	"sort"
	"sync"
)

// Store persists alert records.
type Store interface {
	Insert(ctx context.Context, alert *Alert) error
	List(ctx context.Context, limit int) ([]*Alert, error)
	Acknowledge(ctx context.Context, id string) error
	MarkFalsePositive(ctx context.Context, id string) error
	Stats(ctx context.Context) (*Stats, error)
}

// ErrNotFound is returned when an alert ID does not exist.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "alert not found" }

// MemoryStore is an in-process Store for tests and single-node runs without
// a database.
type MemoryStore struct {
	mu     sync.RWMutex
	alerts map[string]*Alert
	order  []string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{alerts: make(map[string]*Alert)}
}

func (m *MemoryStore) Insert(_ context.Context, alert *Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *alert
	cp.Indicators = append([]string(nil), alert.Indicators...)
	m.alerts[cp.ID] = &cp
	m.order = append(m.order, cp.ID)
	return nil
}

// List returns alerts newest-first, up to limit (0 = all).
func (m *MemoryStore) List(_ context.Context, limit int) ([]*Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := append([]string(nil), m.order...)
	sort.SliceStable(ids, func(i, j int) bool {
		return m.alerts[ids[i]].CreatedAt.After(m.alerts[ids[j]].CreatedAt)
	})
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]*Alert, len(ids))
	for i, id := range ids {
		cp := *m.alerts[id]
		cp.Indicators = append([]string(nil), m.alerts[id].Indicators...)
		out[i] = &cp
	}
	return out, nil
}

func (m *MemoryStore) Acknowledge(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	alert, ok := m.alerts[id]
	if !ok {
		return ErrNotFound
	}
	alert.Acknowledged = true
	return nil
}

func (m *MemoryStore) MarkFalsePositive(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	alert, ok := m.alerts[id]
	if !ok {
		return ErrNotFound
	}
	alert.FalsePositive = true
	return nil
}

func (m *MemoryStore) Stats(_ context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &Stats{
		Total:        len(m.alerts),
		BySeverity:   make(map[string]int),
		ByAttackType: make(map[string]int),
	}
	for _, a := range m.alerts {
		stats.BySeverity[a.Severity]++
		stats.ByAttackType[a.AlertType]++
		if a.Acknowledged {
			stats.Acknowledged++
		}
		if a.FalsePositive {
			stats.FalsePositives++
		}
	}
	return stats, nil
}

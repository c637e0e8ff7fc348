package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process Store. It backs tests and doubles as the local
// commit target when no remote store is configured.
type Memory struct {
	mu     sync.RWMutex
	tables map[Table]map[string][]byte
	order  map[Table][]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		tables: make(map[Table]map[string][]byte),
		order:  make(map[Table][]string),
	}
}

func (m *Memory) GetAll(_ context.Context, table Table) ([]Record, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := make([]Record, 0, len(m.order[table]))
	for _, key := range m.order[table] {
		payload := make([]byte, len(m.tables[table][key]))
		copy(payload, m.tables[table][key])
		recs = append(recs, Record{Key: key, Payload: payload})
	}
	return recs, nil
}

func (m *Memory) Upsert(_ context.Context, table Table, key string, payload any) error {
	if !table.Valid() {
		return fmt.Errorf("unknown table %q", table)
	}
	if key == "" {
		return fmt.Errorf("missing key for table %s", table)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", table, key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tables[table] == nil {
		m.tables[table] = make(map[string][]byte)
	}
	if _, exists := m.tables[table][key]; !exists {
		m.order[table] = append(m.order[table], key)
	}
	m.tables[table][key] = body
	return nil
}

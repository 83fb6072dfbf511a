package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"CashLedger/internal/entity"
)

// Memory is an in-process Store. Entities are kept as encoded payloads so
// a loaded entity never aliases stored state; callers must Upsert to make
// a change visible, exactly as with the Postgres store.
type Memory struct {
	mu       sync.RWMutex
	entities map[entity.Kind]map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entities: make(map[entity.Kind]map[string][]byte)}
}

func (m *Memory) Load(ctx context.Context, kind entity.Kind, id string) (entity.Entity, error) {
	m.mu.RLock()
	data, ok := m.entities[kind][id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("load %s %s: %w", string(kind), id, ErrNotFound)
	}
	return decodeEntity(kind, data)
}

func (m *Memory) Upsert(ctx context.Context, e entity.Entity) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", string(e.EntityKind()), e.EntityID(), err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.entities[e.EntityKind()]
	if !ok {
		byID = make(map[string][]byte)
		m.entities[e.EntityKind()] = byID
	}
	byID[e.EntityID()] = data
	return nil
}

func (m *Memory) Delete(ctx context.Context, kind entity.Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entities[kind], id)
	return nil
}

// Len reports the number of stored entities of a kind.
func (m *Memory) Len(kind entity.Kind) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entities[kind])
}

// IDs returns the stored ids of a kind, for test assertions.
func (m *Memory) IDs(kind entity.Kind) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.entities[kind]))
	for id := range m.entities[kind] {
		ids = append(ids, id)
	}
	return ids
}

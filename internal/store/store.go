// Package store persists draft snapshots behind a key-value contract: the
// key is the draft id and the value is the snapshot JSON, which is enough to
// rebuild the draft.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/DoyleJ11/golf-draft-backend/internal/engine"
)

type Store interface {
	Save(ctx context.Context, d engine.Draft) error
	// Load returns engine.ErrDraftNotFound for unknown ids.
	Load(ctx context.Context, id string) (engine.Draft, error)
}

func encode(d engine.Draft) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft %s: %w", d.ID, err)
	}
	return data, nil
}

func decode(data []byte) (engine.Draft, error) {
	var d engine.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return engine.Draft{}, fmt.Errorf("failed to decode draft: %w", err)
	}
	return d, nil
}

// Memory keeps encoded snapshots in process memory.
type Memory struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{drafts: make(map[string][]byte)}
}

func (m *Memory) Save(_ context.Context, d engine.Draft) error {
	data, err := encode(d)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[d.ID] = data
	return nil
}

func (m *Memory) Load(_ context.Context, id string) (engine.Draft, error) {
	m.mu.RLock()
	data, ok := m.drafts[id]
	m.mu.RUnlock()
	if !ok {
		return engine.Draft{}, engine.ErrDraftNotFound
	}
	return decode(data)
}

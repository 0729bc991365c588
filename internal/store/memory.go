package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Store. Runs are lost on restart.
type Memory struct {
	mu   sync.RWMutex
	runs map[string]Run
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{runs: make(map[string]Run)}
}

func (m *Memory) SaveRun(ctx context.Context, run Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[run.ID]; ok {
		return ErrAlreadyExists
	}
	m.runs[run.ID] = run
	return nil
}

func (m *Memory) GetRun(ctx context.Context, id string) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return Run{}, ErrNotFound
	}
	return run, nil
}

func (m *Memory) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	m.mu.RLock()
	out := make([]RunSummary, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r.Summary())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }

package leaderboard

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps scores in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	scores []int
}

func NewMemoryStore(scores ...int) *MemoryStore {
	return &MemoryStore{scores: slices.Clone(scores)}
}

func (m *MemoryStore) Load(ctx context.Context) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.scores), nil
}

func (m *MemoryStore) Save(ctx context.Context, scores []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = slices.Clone(scores)
	return nil
}

package snapshot

import (
	"context"
	"sync"
	"time"

	"triada/internal/match"
)

// MemoryStore is an in-process snapshot log used in tests and in runs
// without a configured database. Same append-only semantics as Postgres.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots []Snapshot
	specials  []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) SaveSnapshot(_ context.Context, payload match.Result) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.snapshots = append(ms.snapshots, Snapshot{Payload: payload, CreatedAt: time.Now()})
	return nil
}

func (ms *MemoryStore) LatestSnapshot(_ context.Context) (*Snapshot, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if len(ms.snapshots) == 0 {
		return nil, nil
	}
	snap := ms.snapshots[len(ms.snapshots)-1]
	return &snap, nil
}

// SetSpecialCategories seeds the special-category list.
func (ms *MemoryStore) SetSpecialCategories(names []string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.specials = append([]string(nil), names...)
}

func (ms *MemoryStore) SpecialCategoryNames(_ context.Context) ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return append([]string(nil), ms.specials...), nil
}

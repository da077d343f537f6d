package assessmentrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/AnshBhanushali/Healytics/internal/domain/assessment"
)

// MemoryRepository is an in-memory assessment.Repository used for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []assessment.Record
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Insert implements assessment.Repository.
func (r *MemoryRepository) Insert(_ context.Context, rec assessment.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

// ListRecent implements assessment.Repository.
func (r *MemoryRepository) ListRecent(_ context.Context, limit int) ([]assessment.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]assessment.Record, len(r.records))
	copy(out, r.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ assessment.Repository = (*MemoryRepository)(nil)

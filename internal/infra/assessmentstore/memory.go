package assessmentstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AnshBhanushali/Healytics/internal/domain/assessment"
)

type cachedResult struct {
	payload   assessment.RiskAssessment
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of the assessment store for
// tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]cachedResult
	counts  map[string]int64
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results: make(map[string]cachedResult),
		counts:  make(map[string]int64),
	}
}

// GetCached implements assessment.Store.
func (s *MemoryStore) GetCached(_ context.Context, key string) (assessment.RiskAssessment, bool, error) {
	s.mu.RLock()
	record, ok := s.results[key]
	s.mu.RUnlock()
	if !ok {
		return assessment.RiskAssessment{}, false, nil
	}
	if hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.results, key)
		s.mu.Unlock()
		return assessment.RiskAssessment{}, false, nil
	}
	return record.payload, true, nil
}

// SaveCached caches the result with optional TTL.
func (s *MemoryStore) SaveCached(_ context.Context, key string, res assessment.RiskAssessment, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.results[key] = cachedResult{payload: res, expiresAt: exp}
	return nil
}

// IncrementFactor bumps the counter for a contributing factor.
func (s *MemoryStore) IncrementFactor(_ context.Context, factor string) error {
	if factor == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[factor]++
	return nil
}

// TopFactors returns the most frequent contributing factors.
func (s *MemoryStore) TopFactors(_ context.Context, limit int) ([]assessment.FactorCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = len(s.counts)
	}
	items := make([]assessment.FactorCount, 0, len(s.counts))
	for factor, count := range s.counts {
		items = append(items, assessment.FactorCount{Factor: factor, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Factor < items[j].Factor
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ assessment.Store = (*MemoryStore)(nil)

package assessmentstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/AnshBhanushali/Healytics/internal/domain/assessment"
)

// ValkeyStore persists cached assessments and factor counters in a
// Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "assessment"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) GetCached(ctx context.Context, key string) (assessment.RiskAssessment, bool, error) {
	cmd := s.client.B().Get().Key(s.resultKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return assessment.RiskAssessment{}, false, nil
		}
		return assessment.RiskAssessment{}, false, err
	}
	var res assessment.RiskAssessment
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return assessment.RiskAssessment{}, false, err
	}
	return res, true, nil
}

func (s *ValkeyStore) SaveCached(ctx context.Context, key string, res assessment.RiskAssessment, ttl time.Duration) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.resultKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) IncrementFactor(ctx context.Context, factor string) error {
	if factor == "" {
		return nil
	}
	cmd := s.client.B().Zincrby().Key(s.factorsKey()).Increment(1).Member(factor).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) TopFactors(ctx context.Context, limit int) ([]assessment.FactorCount, error) {
	if limit <= 0 {
		limit = 10
	}
	resp := s.client.Do(ctx, s.client.B().Zrevrange().Key(s.factorsKey()).Start(0).Stop(int64(limit-1)).Withscores().Build())
	arr, err := resp.ToArray()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]assessment.FactorCount, 0, len(arr))
	for i := 0; i < len(arr); {
		var (
			member string
			score  float64
		)
		if tuple, tupleErr := arr[i].ToArray(); tupleErr == nil && len(tuple) == 2 {
			// RESP3 returns [member, score] per element
			if member, err = tuple[0].ToString(); err != nil {
				if valkey.IsValkeyNil(err) {
					i++
					continue
				}
				return nil, err
			}
			if score, err = tuple[1].ToFloat64(); err != nil {
				return nil, err
			}
			i++
		} else {
			// RESP2 returns a flat alternating array.
			if i+1 >= len(arr) {
				break
			}
			if member, err = arr[i].ToString(); err != nil {
				if valkey.IsValkeyNil(err) {
					i += 2
					continue
				}
				return nil, err
			}
			if score, err = arr[i+1].ToFloat64(); err != nil {
				return nil, err
			}
			i += 2
		}
		out = append(out, assessment.FactorCount{Factor: member, Count: int64(score)})
	}
	return out, nil
}

func (s *ValkeyStore) resultKey(key string) string {
	return fmt.Sprintf("%s:result:%s", s.prefix, key)
}

func (s *ValkeyStore) factorsKey() string {
	return fmt.Sprintf("%s:factors", s.prefix)
}

var _ assessment.Store = (*ValkeyStore)(nil)

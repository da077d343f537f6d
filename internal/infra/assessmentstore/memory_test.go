package assessmentstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AnshBhanushali/Healytics/internal/domain/assessment"
)

func TestMemoryStoreCacheRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.GetCached(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	res := assessment.RiskAssessment{Mode: assessment.ModeForm, Prediction: assessment.TierHighRisk, Confidence: 0.77}
	require.NoError(t, store.SaveCached(ctx, "k", res, time.Minute))

	got, ok, err := store.GetCached(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, res, got)
}

func TestMemoryStoreCacheExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveCached(ctx, "k", assessment.RiskAssessment{}, time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := store.GetCached(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreTopFactorsOrdering(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.IncrementFactor(ctx, "high_systolic_bp"))
	}
	require.NoError(t, store.IncrementFactor(ctx, "advanced_age"))
	require.NoError(t, store.IncrementFactor(ctx, ""))

	items, err := store.TopFactors(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, []assessment.FactorCount{
		{Factor: "high_systolic_bp", Count: 3},
		{Factor: "advanced_age", Count: 1},
	}, items)

	items, err = store.TopFactors(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

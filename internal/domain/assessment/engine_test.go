package assessment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// zeroRand removes all randomness: no jitter, no auxiliary factor draws.
type zeroRand struct{}

func (zeroRand) Float64() float64 { return 0.5 }
func (zeroRand) Intn(int) int     { return 0 }
func (zeroRand) Perm(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// maxRand pushes jitter and auxiliary draws to their upper bounds.
type maxRand struct{}

func (maxRand) Float64() float64 { return 1 }
func (maxRand) Intn(n int) int   { return n - 1 }
func (maxRand) Perm(n int) []int { return zeroRand{}.Perm(n) }

func TestRiskScoreStaysInUnitInterval(t *testing.T) {
	cases := []struct {
		name   string
		vitals PatientVitals
		rng    Rand
	}{
		{"extremes with max jitter", PatientVitals{Age: 120, SystolicBP: 250, DiastolicBP: 150, Cholesterol: 400, FamilyHistory: true}, maxRand{}},
		{"minimal vitals", PatientVitals{Age: 1, SystolicBP: 50, DiastolicBP: 30, Cholesterol: 50}, zeroRand{}},
		{"typical vitals", PatientVitals{Age: 45, SystolicBP: 120, DiastolicBP: 80, Cholesterol: 190}, NewSeededRand(7)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score := riskScore(tc.vitals, tc.rng)
			require.GreaterOrEqual(t, score, 0.0)
			require.LessOrEqual(t, score, 1.0)
		})
	}
}

func TestRiskScoreWeighting(t *testing.T) {
	vitals := PatientVitals{Age: 70, SystolicBP: 150, DiastolicBP: 95, Cholesterol: 260, FamilyHistory: true}
	score := riskScore(vitals, zeroRand{})
	require.InDelta(t, 0.773333, score, 1e-6)

	vitals.FamilyHistory = false
	require.InDelta(t, 0.673333, riskScore(vitals, zeroRand{}), 1e-6)
}

func TestClassifyPartitionsUnitInterval(t *testing.T) {
	cases := []struct {
		score float64
		want  RiskTier
	}{
		{0.0, TierLowRisk},
		{0.35, TierLowRisk},
		{0.350001, TierMediumRisk},
		{0.60, TierMediumRisk},
		{0.600001, TierHighRisk},
		{0.85, TierHighRisk},
		{0.850001, TierVeryHighRisk},
		{1.0, TierVeryHighRisk},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, classify(tc.score), "score %v", tc.score)
	}
}

func TestClassifyMonotonic(t *testing.T) {
	order := map[RiskTier]int{TierLowRisk: 0, TierMediumRisk: 1, TierHighRisk: 2, TierVeryHighRisk: 3}
	prev := TierLowRisk
	for score := 0.0; score <= 1.0; score += 0.01 {
		tier := classify(score)
		require.GreaterOrEqual(t, order[tier], order[prev], "score %v", score)
		prev = tier
	}
}

func TestExtractFactorsDeterministicOrder(t *testing.T) {
	vitals := PatientVitals{Age: 70, SystolicBP: 150, DiastolicBP: 95, Cholesterol: 260, FamilyHistory: true}
	factors := extractFactors(vitals, zeroRand{})
	require.Equal(t, []Factor{
		FactorAdvancedAge,
		FactorHighSystolicBP,
		FactorHighDiastolicBP,
		FactorHighCholesterol,
		FactorFamilyHistory,
	}, factors)
}

func TestExtractFactorsBelowThresholds(t *testing.T) {
	vitals := PatientVitals{Age: 25, SystolicBP: 110, DiastolicBP: 70, Cholesterol: 150}
	require.Empty(t, extractFactors(vitals, zeroRand{}))
}

func TestExtractFactorsAuxiliarySample(t *testing.T) {
	vitals := PatientVitals{Age: 25, SystolicBP: 110, DiastolicBP: 70, Cholesterol: 150}
	factors := extractFactors(vitals, maxRand{})
	require.Equal(t, []Factor{FactorElevatedHeartRate, FactorLowHydration}, factors)
}

func TestExtractFactorsNeverDuplicates(t *testing.T) {
	vitals := PatientVitals{Age: 80, SystolicBP: 180, DiastolicBP: 100, Cholesterol: 300, FamilyHistory: true}
	for seed := int64(0); seed < 50; seed++ {
		factors := extractFactors(vitals, NewSeededRand(seed))
		seen := make(map[Factor]struct{}, len(factors))
		for _, factor := range factors {
			_, dup := seen[factor]
			require.False(t, dup, "seed %d duplicated %s", seed, factor)
			seen[factor] = struct{}{}
		}
	}
}

func TestRecommendationsIndexCorrespondence(t *testing.T) {
	factors := []Factor{FactorAdvancedAge, FactorLowHydration, Factor("unknown_marker")}
	actions := recommendations(factors)
	require.Len(t, actions, len(factors))
	require.Equal(t, "Schedule a geriatric wellness check-up", actions[0])
	require.Equal(t, "Increase daily water intake", actions[1])
	require.Equal(t, "Review unknown_marker", actions[2])
}

func TestRecommendationsEmpty(t *testing.T) {
	require.Empty(t, recommendations(nil))
}

func TestAssembleDerivations(t *testing.T) {
	cases := []struct {
		score       float64
		urgency     Urgency
		readmission bool
	}{
		{0.42, UrgencyLow, false},
		{0.5, UrgencyLow, false},
		{0.51, UrgencyMedium, true},
		{0.8, UrgencyMedium, true},
		{0.81, UrgencyHigh, true},
		{0.97, UrgencyHigh, true},
	}
	for _, tc := range cases {
		res := assemble(ModeForm, tc.score, classify(tc.score), nil, nil)
		require.Equal(t, tc.urgency, res.Urgency, "score %v", tc.score)
		require.Equal(t, tc.readmission, res.HospitalReadmission, "score %v", tc.score)
		require.Equal(t, res.Confidence, res.ReadmissionProbability)
	}
}

func TestAssembleRoundsConfidence(t *testing.T) {
	res := assemble(ModeForm, 0.773333, TierHighRisk, nil, nil)
	require.Equal(t, 0.77, res.Confidence)
	require.Equal(t, 0.77, res.ReadmissionProbability)
}

func TestAssembleDescription(t *testing.T) {
	factors := []Factor{FactorHighSystolicBP}
	res := assemble(ModeVision, 0.9, TierVeryHighRisk, factors, recommendations(factors))
	require.Equal(t, ModeVision, res.Mode)
	require.Contains(t, res.Description, "very high risk")
	require.Contains(t, res.Description, "90%")
	require.False(t, strings.Contains(res.Description, "_"))
}

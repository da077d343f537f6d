package unit

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AnshBhanushali/Healytics/internal/domain/assessment"
	"github.com/AnshBhanushali/Healytics/internal/infra/assessmentrepo"
	"github.com/AnshBhanushali/Healytics/internal/infra/assessmentstore"
	"github.com/AnshBhanushali/Healytics/internal/infra/imagestore"
)

type stubAnalyzer struct {
	vitals assessment.PatientVitals
	err    error

	lastMode assessment.Mode
}

func (a *stubAnalyzer) ExtractVitals(_ context.Context, mode assessment.Mode, _ assessment.Upload) (assessment.PatientVitals, error) {
	a.lastMode = mode
	return a.vitals, a.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEngineConfig() assessment.Config {
	return assessment.Config{
		CacheTTL:      0,
		HistoryLimit:  50,
		TrendingLimit: 10,
	}
}

func newServiceWithMemoryInfra(analyzer assessment.Analyzer) (assessment.Service, *assessmentrepo.MemoryRepository) {
	repo := assessmentrepo.NewMemoryRepository()
	store := assessmentstore.NewMemoryStore()
	storage := imagestore.NewMemoryStorage()
	svc := assessment.NewService(testEngineConfig(), repo, store, analyzer, storage, newTestLogger())
	return svc, repo
}

func elevatedInput() assessment.FormInput {
	return assessment.FormInput{
		Age:           float64(70),
		SystolicBP:    float64(150),
		DiastolicBP:   float64(95),
		Cholesterol:   float64(260),
		FamilyHistory: true,
	}
}

func TestAssessFormElevatedVitals(t *testing.T) {
	svc, repo := newServiceWithMemoryInfra(&stubAnalyzer{})

	res, err := svc.AssessForm(context.Background(), elevatedInput())
	require.NoError(t, err)

	// Base score 0.7733 with at most 0.05 of jitter stays inside the
	// high risk band on every run.
	require.Equal(t, assessment.TierHighRisk, res.Prediction)
	require.Equal(t, assessment.ModeForm, res.Mode)
	require.GreaterOrEqual(t, res.Confidence, 0.72)
	require.LessOrEqual(t, res.Confidence, 0.83)
	require.Equal(t, res.Confidence, res.ReadmissionProbability)
	require.True(t, res.HospitalReadmission)
	// Jitter can push confidence past the 0.8 urgency cutoff.
	require.Contains(t, []assessment.Urgency{assessment.UrgencyMedium, assessment.UrgencyHigh}, res.Urgency)

	require.GreaterOrEqual(t, len(res.TopFactors), 5)
	require.Equal(t, assessment.FactorAdvancedAge, res.TopFactors[0])
	require.Equal(t, assessment.FactorHighSystolicBP, res.TopFactors[1])
	require.Len(t, res.RecommendedActions, len(res.TopFactors))
	require.Contains(t, res.Description, "high risk")

	records, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, assessment.TierHighRisk, records[0].Prediction)
}

func TestAssessFormHealthyVitals(t *testing.T) {
	svc, _ := newServiceWithMemoryInfra(&stubAnalyzer{})

	res, err := svc.AssessForm(context.Background(), assessment.FormInput{
		Age:         float64(25),
		SystolicBP:  float64(110),
		DiastolicBP: float64(70),
		Cholesterol: float64(150),
	})
	require.NoError(t, err)
	require.Equal(t, assessment.TierMediumRisk, res.Prediction)
	require.Empty(t, res.TopFactors)
	require.Equal(t, assessment.UrgencyLow, res.Urgency)
	require.False(t, res.HospitalReadmission)
}

func TestAssessFormRejectsMissingField(t *testing.T) {
	svc, repo := newServiceWithMemoryInfra(&stubAnalyzer{})

	_, err := svc.AssessForm(context.Background(), assessment.FormInput{})
	require.Error(t, err)

	var fieldErr *assessment.FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, "age", fieldErr.Field)
	require.Equal(t, assessment.CodeMissingField, fieldErr.Code)

	records, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestAssessImageRunsExtractedVitals(t *testing.T) {
	analyzer := &stubAnalyzer{vitals: assessment.PatientVitals{
		Age:           70,
		SystolicBP:    150,
		DiastolicBP:   95,
		Cholesterol:   260,
		FamilyHistory: true,
	}}
	svc, repo := newServiceWithMemoryInfra(analyzer)

	upload := assessment.Upload{Filename: "rx.jpg", MimeType: "image/jpeg", Content: []byte("pixels")}
	res, err := svc.AssessImage(context.Background(), assessment.ModePrescription, upload)
	require.NoError(t, err)
	require.Equal(t, assessment.ModePrescription, res.Mode)
	require.Equal(t, assessment.ModePrescription, analyzer.lastMode)
	require.Equal(t, assessment.TierHighRisk, res.Prediction)

	records, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, assessment.ModePrescription, records[0].Mode)
}

func TestAssessImageRejectsFormMode(t *testing.T) {
	svc, _ := newServiceWithMemoryInfra(&stubAnalyzer{})

	_, err := svc.AssessImage(context.Background(), assessment.ModeForm, assessment.Upload{Content: []byte("x")})
	require.Error(t, err)
}

func TestTrendingFactorsAccumulateAcrossAssessments(t *testing.T) {
	svc, _ := newServiceWithMemoryInfra(&stubAnalyzer{})

	for i := 0; i < 3; i++ {
		in := elevatedInput()
		// Vary one field so every run misses the result cache.
		in.Cholesterol = float64(260 + i)
		_, err := svc.AssessForm(context.Background(), in)
		require.NoError(t, err)
	}

	factors, err := svc.TrendingFactors(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, factors)
	require.Equal(t, int64(3), topCount(factors, "advanced_age"))
}

func topCount(factors []assessment.FactorCount, name string) int64 {
	for _, f := range factors {
		if f.Factor == name {
			return f.Count
		}
	}
	return 0
}

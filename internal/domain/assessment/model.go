package assessment

import (
	"time"

	"github.com/google/uuid"
)

// Mode identifies the input channel that produced an assessment.
type Mode string

const (
	ModeForm         Mode = "form"
	ModePrescription Mode = "prescription"
	ModeVision       Mode = "vision"
)

// RiskTier is one of the four ordered risk categories.
type RiskTier string

const (
	TierLowRisk      RiskTier = "low_risk"
	TierMediumRisk   RiskTier = "medium_risk"
	TierHighRisk     RiskTier = "high_risk"
	TierVeryHighRisk RiskTier = "very_high_risk"
)

// Urgency is derived from the assessment confidence.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Factor is a contributing risk factor drawn from a closed catalog.
type Factor string

const (
	FactorAdvancedAge       Factor = "advanced_age"
	FactorHighSystolicBP    Factor = "high_systolic_bp"
	FactorHighDiastolicBP   Factor = "high_diastolic_bp"
	FactorHighCholesterol   Factor = "high_cholesterol"
	FactorFamilyHistory     Factor = "family_history"
	FactorElevatedHeartRate Factor = "elevated_heart_rate"
	FactorLowHydration      Factor = "low_hydration"
	FactorElevatedStress    Factor = "elevated_stress_level"
)

// FormInput carries one raw form submission before validation. Numeric
// fields may arrive as JSON numbers or strings; only the validator reads
// them.
type FormInput struct {
	Age           any `json:"age"`
	SystolicBP    any `json:"systolic_bp"`
	DiastolicBP   any `json:"diastolic_bp"`
	Cholesterol   any `json:"cholesterol"`
	FamilyHistory any `json:"family_history"`
}

// PatientVitals is the validated, strongly typed engine input.
type PatientVitals struct {
	Age           float64
	SystolicBP    float64
	DiastolicBP   float64
	Cholesterol   float64
	FamilyHistory bool
}

// RiskAssessment is the canonical engine output serialized to API consumers.
type RiskAssessment struct {
	Mode                   Mode     `json:"mode"`
	Prediction             RiskTier `json:"prediction"`
	Confidence             float64  `json:"confidence"`
	TopFactors             []Factor `json:"top_factors"`
	Description            string   `json:"description"`
	RecommendedActions     []string `json:"recommended_actions"`
	Urgency                Urgency  `json:"urgency"`
	HospitalReadmission    bool     `json:"hospital_readmission"`
	ReadmissionProbability float64  `json:"readmission_probability"`
}

// Upload carries a single file submitted through an image channel.
type Upload struct {
	Filename string
	MimeType string
	Content  []byte
}

// Record is a persisted assessment summary used by the history listing.
type Record struct {
	ID         uuid.UUID `json:"id"`
	Mode       Mode      `json:"mode"`
	Prediction RiskTier  `json:"prediction"`
	Confidence float64   `json:"confidence"`
	TopFactors []string  `json:"top_factors"`
	CreatedAt  time.Time `json:"created_at"`
}

// FactorCount pairs a catalog factor with how often it contributed.
type FactorCount struct {
	Factor string `json:"factor"`
	Count  int64  `json:"count"`
}

// Config tunes the service around the engine. The scoring weights and
// classification thresholds themselves are fixed constants, not config.
type Config struct {
	CacheTTL      time.Duration
	HistoryLimit  int
	TrendingLimit int
}

package assessment

import (
	"fmt"
	"math"
	"strings"
)

// Scoring normalizes each vital against a clinically "high" reference value
// so no single field dominates, then adds a bounded jitter term to model
// measurement uncertainty. The non-random weights sum to 1.0.
const (
	ageReference         = 120.0
	systolicReference    = 200.0
	diastolicReference   = 120.0
	cholesterolReference = 300.0

	ageWeight           = 0.2
	systolicWeight      = 0.3
	diastolicWeight     = 0.2
	cholesterolWeight   = 0.2
	familyHistoryWeight = 0.1

	jitterAmplitude = 0.05
)

// Clinical thresholds for contributing-factor extraction.
const (
	advancedAgeThreshold     = 65.0
	highSystolicThreshold    = 140.0
	highDiastolicThreshold   = 90.0
	highCholesterolThreshold = 240.0
)

// auxiliaryFactors is the fixed catalog sampled on top of the deterministic
// factor checks.
var auxiliaryFactors = []Factor{
	FactorElevatedHeartRate,
	FactorLowHydration,
	FactorElevatedStress,
}

// riskScore computes a normalized risk score in [0,1].
func riskScore(v PatientVitals, rng Rand) float64 {
	score := ageWeight*(v.Age/ageReference) +
		systolicWeight*(v.SystolicBP/systolicReference) +
		diastolicWeight*(v.DiastolicBP/diastolicReference) +
		cholesterolWeight*(v.Cholesterol/cholesterolReference)
	if v.FamilyHistory {
		score += familyHistoryWeight
	}
	// uniform in [-jitterAmplitude, +jitterAmplitude]
	score += jitterAmplitude * (2*rng.Float64() - 1)
	return clamp(score, 0, 1)
}

// classify maps a score onto the ordered risk tiers. The four half-open
// buckets partition [0,1] with no gap or overlap.
func classify(score float64) RiskTier {
	switch {
	case score > 0.85:
		return TierVeryHighRisk
	case score > 0.60:
		return TierHighRisk
	case score > 0.35:
		return TierMediumRisk
	default:
		return TierLowRisk
	}
}

// extractFactors tests each vital against its clinical threshold in a fixed
// order, then appends a 0-2 item sample drawn without replacement from the
// auxiliary catalog. Identifiers are unique within one assessment.
func extractFactors(v PatientVitals, rng Rand) []Factor {
	factors := make([]Factor, 0, 5+len(auxiliaryFactors))
	if v.Age >= advancedAgeThreshold {
		factors = append(factors, FactorAdvancedAge)
	}
	if v.SystolicBP >= highSystolicThreshold {
		factors = append(factors, FactorHighSystolicBP)
	}
	if v.DiastolicBP >= highDiastolicThreshold {
		factors = append(factors, FactorHighDiastolicBP)
	}
	if v.Cholesterol >= highCholesterolThreshold {
		factors = append(factors, FactorHighCholesterol)
	}
	if v.FamilyHistory {
		factors = append(factors, FactorFamilyHistory)
	}

	count := rng.Intn(3)
	if count > 0 {
		order := rng.Perm(len(auxiliaryFactors))
		for _, idx := range order[:count] {
			factors = appendUnique(factors, auxiliaryFactors[idx])
		}
	}
	return factors
}

var recommendedActions = map[Factor]string{
	FactorAdvancedAge:       "Schedule a geriatric wellness check-up",
	FactorHighSystolicBP:    "Monitor blood pressure daily and reduce sodium intake",
	FactorHighDiastolicBP:   "Review blood pressure management with your physician",
	FactorHighCholesterol:   "Adopt a low-cholesterol diet and schedule a lipid panel",
	FactorFamilyHistory:     "Discuss preventive screening options with your doctor",
	FactorElevatedHeartRate: "Limit caffeine and practice breathing exercises",
	FactorLowHydration:      "Increase daily water intake",
	FactorElevatedStress:    "Incorporate stress management techniques such as meditation",
}

// recommendations maps each factor to its recommended action, preserving
// index correspondence. Unknown identifiers fall back to a generic review
// action so the mapper never fails.
func recommendations(factors []Factor) []string {
	actions := make([]string, len(factors))
	for i, factor := range factors {
		action, ok := recommendedActions[factor]
		if !ok {
			action = fmt.Sprintf("Review %s", factor)
		}
		actions[i] = action
	}
	return actions
}

// assemble composes the final immutable assessment from the engine outputs.
func assemble(mode Mode, score float64, tier RiskTier, factors []Factor, actions []string) RiskAssessment {
	confidence := math.Round(score*100) / 100

	urgency := UrgencyLow
	switch {
	case confidence > 0.8:
		urgency = UrgencyHigh
	case confidence > 0.5:
		urgency = UrgencyMedium
	}

	readmitPct := int(math.Round(confidence * 100))
	description := fmt.Sprintf("Assessment indicates %s with an estimated %d%% readmission probability.",
		strings.ReplaceAll(string(tier), "_", " "), readmitPct)

	return RiskAssessment{
		Mode:                   mode,
		Prediction:             tier,
		Confidence:             confidence,
		TopFactors:             factors,
		Description:            description,
		RecommendedActions:     actions,
		Urgency:                urgency,
		HospitalReadmission:    confidence > 0.5,
		ReadmissionProbability: confidence,
	}
}

func appendUnique(factors []Factor, candidate Factor) []Factor {
	for _, existing := range factors {
		if existing == candidate {
			return factors
		}
	}
	return append(factors, candidate)
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

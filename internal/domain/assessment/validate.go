package assessment

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Validation error codes surfaced to the transport layer.
const (
	CodeMissingField  = "missing_field"
	CodeInvalidNumber = "invalid_number"
)

// FieldError reports which vital failed validation and why.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func missingField(field string) *FieldError {
	return &FieldError{Field: field, Code: CodeMissingField, Message: "required vital is missing"}
}

func invalidNumber(field, reason string) *FieldError {
	return &FieldError{Field: field, Code: CodeInvalidNumber, Message: reason}
}

// ParseVitals validates a raw form submission and coerces it into typed
// vitals. It fails on the first offending field; no scoring happens until
// every numeric vital is a finite positive number.
//
// A numeric field equal to zero is rejected as missing rather than invalid.
// The intake form submits untouched fields as zero, so zero doubles as the
// "not provided" sentinel even though a literal zero could be medically
// meaningful.
func ParseVitals(in FormInput) (PatientVitals, error) {
	vitals := PatientVitals{}

	fields := []struct {
		name string
		raw  any
		dst  *float64
	}{
		{"age", in.Age, &vitals.Age},
		{"systolic_bp", in.SystolicBP, &vitals.SystolicBP},
		{"diastolic_bp", in.DiastolicBP, &vitals.DiastolicBP},
		{"cholesterol", in.Cholesterol, &vitals.Cholesterol},
	}

	for _, field := range fields {
		value, present, err := coerceNumber(field.raw)
		if err != nil {
			return PatientVitals{}, invalidNumber(field.name, err.Error())
		}
		if !present || value == 0 {
			return PatientVitals{}, missingField(field.name)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return PatientVitals{}, invalidNumber(field.name, "value must be a finite number")
		}
		if value < 0 {
			return PatientVitals{}, invalidNumber(field.name, "value must be positive")
		}
		*field.dst = value
	}

	vitals.FamilyHistory = coerceBool(in.FamilyHistory)
	return vitals, nil
}

func coerceNumber(raw any) (float64, bool, error) {
	switch v := raw.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return v, true, nil
	case float32:
		return float64(v), true, nil
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, true, fmt.Errorf("%q is not a number", v.String())
		}
		return parsed, true, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, true, fmt.Errorf("%q is not a number", trimmed)
		}
		return parsed, true, nil
	default:
		return 0, true, fmt.Errorf("unsupported value of type %T", raw)
	}
}

func coerceBool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && parsed
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

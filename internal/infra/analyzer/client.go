package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	resty "github.com/go-resty/resty/v2"

	"github.com/AnshBhanushali/Healytics/internal/domain/assessment"
)

// Config carries the external analyzer endpoints.
type Config struct {
	PrescriptionURL string
	VisionURL       string
	APIKey          string
	Timeout         time.Duration
}

// Client posts uploaded files to the external prescription/vision analyzer
// services and decodes the vitals-equivalent signal they return.
type Client struct {
	cfg  Config
	http *resty.Client
}

// NewClient builds an analyzer API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		httpClient.SetAuthToken(cfg.APIKey)
	}
	return &Client{cfg: cfg, http: httpClient}
}

// ExtractVitals implements assessment.Analyzer.
func (c *Client) ExtractVitals(ctx context.Context, mode assessment.Mode, upload assessment.Upload) (assessment.PatientVitals, error) {
	endpoint, err := c.endpointFor(mode)
	if err != nil {
		return assessment.PatientVitals{}, err
	}

	var payload vitalsPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", upload.Filename, bytes.NewReader(upload.Content)).
		SetResult(&payload).
		Post(endpoint)
	if err != nil {
		return assessment.PatientVitals{}, fmt.Errorf("analyzer request failed: %w", err)
	}
	if resp.IsError() {
		return assessment.PatientVitals{}, fmt.Errorf("analyzer request error: status=%d body=%s", resp.StatusCode(), truncateBody(resp.Body()))
	}

	return payload.toVitals(), nil
}

func (c *Client) endpointFor(mode assessment.Mode) (string, error) {
	switch mode {
	case assessment.ModePrescription:
		return c.cfg.PrescriptionURL, nil
	case assessment.ModeVision:
		return c.cfg.VisionURL, nil
	default:
		return "", fmt.Errorf("no analyzer endpoint for mode %q", mode)
	}
}

type vitalsPayload struct {
	Age           float64 `json:"age"`
	SystolicBP    float64 `json:"systolic_bp"`
	DiastolicBP   float64 `json:"diastolic_bp"`
	Cholesterol   float64 `json:"cholesterol"`
	FamilyHistory bool    `json:"family_history"`
}

func (p vitalsPayload) toVitals() assessment.PatientVitals {
	return assessment.PatientVitals{
		Age:           p.Age,
		SystolicBP:    p.SystolicBP,
		DiastolicBP:   p.DiastolicBP,
		Cholesterol:   p.Cholesterol,
		FamilyHistory: p.FamilyHistory,
	}
}

func truncateBody(body []byte) string {
	const limit = 4 << 10
	text := string(body)
	if len(text) > limit {
		text = text[:limit]
	}
	return strings.TrimSpace(text)
}

var _ assessment.Analyzer = (*Client)(nil)

// Package predict proxies the external thyroid cancer risk model. The model
// consumes a fixed JSON schema of patient attributes and returns a label with
// a confidence percentage.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PatientProfile is the fixed request schema; every field is required.
type PatientProfile struct {
	Age               string `json:"age"`
	Gender            string `json:"gender"`
	TSH               string `json:"tsh"`
	T3                string `json:"t3"`
	T4                string `json:"t4"`
	TumorSize         string `json:"tumorSize"`
	Country           string `json:"country"`
	Ethnicity         string `json:"ethnicity"`
	FamilyHistory     string `json:"familyHistory"`
	RadiationExposure string `json:"radiationExposure"`
	IodineDeficiency  string `json:"iodineDeficiency"`
	Smoking           string `json:"smoking"`
	Obesity           string `json:"obesity"`
	Diabetes          string `json:"diabetes"`
}

// Validate ensures all attributes are present before the upstream call.
func (p PatientProfile) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"age", p.Age},
		{"gender", p.Gender},
		{"tsh", p.TSH},
		{"t3", p.T3},
		{"t4", p.T4},
		{"tumorSize", p.TumorSize},
		{"country", p.Country},
		{"ethnicity", p.Ethnicity},
		{"familyHistory", p.FamilyHistory},
		{"radiationExposure", p.RadiationExposure},
		{"iodineDeficiency", p.IodineDeficiency},
		{"smoking", p.Smoking},
		{"obesity", p.Obesity},
		{"diabetes", p.Diabetes},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Result is the model's answer.
type Result struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// Client calls the hosted prediction endpoint. Small surface, stdlib HTTP.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

func NewClient(endpoint string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		endpoint:   endpoint,
	}
}

// Predict validates the profile and forwards it to the model endpoint.
func (c *Client) Predict(ctx context.Context, profile PatientProfile) (Result, error) {
	if c.endpoint == "" {
		return Result{}, fmt.Errorf("prediction endpoint is not configured")
	}
	if err := profile.Validate(); err != nil {
		return Result{}, err
	}

	body, err := json.Marshal(profile)
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("prediction api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("invalid prediction response: %w", err)
	}
	return out, nil
}

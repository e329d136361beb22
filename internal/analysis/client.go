package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/assetplan/assetmap-core/internal/device"
	"github.com/assetplan/assetmap-core/internal/infrastructure/config"
	"github.com/assetplan/assetmap-core/internal/infrastructure/logging"
)

// Analyzer assesses the health of a location's assets.
type Analyzer interface {
	// Analyze returns an assessment for the named location. It never
	// returns an error alongside a nil result: failures are absorbed
	// into the fallback assessment so the dashboard always has
	// something to show.
	Analyze(ctx context.Context, locationName string, devices []device.Device) *Result
}

// Client calls a Gemini-style generateContent endpoint and decodes the
// structured JSON reply into a Result.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	http    *http.Client
	logger  *logging.Logger
}

// NewClient creates an analysis client from configuration.
func NewClient(cfg config.AnalysisConfig, timeout time.Duration, logger *logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("component", "analysis"),
	}
}

// generateRequest is the subset of the generateContent request body we
// populate. The response schema forces the model to emit exactly the
// Result shape.
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// resultSchema constrains the model output to the Result JSON shape.
var resultSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"summary": {"type": "string"},
		"recommendations": {"type": "array", "items": {"type": "string"}},
		"alertLevel": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH"]}
	},
	"required": ["summary", "recommendations", "alertLevel"]
}`)

// Analyze implements Analyzer.
func (c *Client) Analyze(ctx context.Context, locationName string, devices []device.Device) *Result {
	result, err := c.analyze(ctx, locationName, devices)
	if err != nil {
		c.logger.Warn("analysis failed, using fallback",
			"location", locationName,
			"devices", len(devices),
			"error", err)
		return Fallback()
	}
	return result
}

func (c *Client) analyze(ctx context.Context, locationName string, devices []device.Device) (*Result, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("analysis: no API key configured")
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(locationName, devices)}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   resultSchema,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("analysis: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("analysis: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("analysis: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analysis: service returned %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, fmt.Errorf("analysis: decode response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("analysis: empty response")
	}

	var result Result
	if err := json.Unmarshal([]byte(gr.Candidates[0].Content.Parts[0].Text), &result); err != nil {
		return nil, fmt.Errorf("analysis: decode result payload: %w", err)
	}
	result.normalize()
	return &result, nil
}

// buildPrompt renders the device inventory into the analysis prompt.
// An empty inventory is still a valid request: the model is asked to
// assess the absence of assets.
func buildPrompt(locationName string, devices []device.Device) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an IT Infrastructure expert. Analyze the following list of network assets for the location %q.\n", locationName)
	sb.WriteString("Identify potential risks (e.g. too many offline devices, servers in maintenance) and provide a brief summary.\n\n")
	sb.WriteString("Assets:\n")
	if len(devices) == 0 {
		sb.WriteString("(none registered)\n")
	}
	for _, d := range devices {
		fmt.Fprintf(&sb, "- %s (%s) at %s: %s\n", d.Name, d.Type, d.IPAddress, d.Status)
	}
	sb.WriteString("\nRespond with a JSON object containing summary, recommendations and alertLevel (LOW, MEDIUM or HIGH).")
	return sb.String()
}

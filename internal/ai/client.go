package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"kortex-blueprint/internal/lead"
)

// Generator produces a blueprint for a lead submission.
type Generator interface {
	Enabled() bool
	Generate(ctx context.Context, submission lead.Submission) (Blueprint, error)
}

// Config holds Gemini configuration parameters.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}

// Client implements Generator against the Gemini generateContent endpoint.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
}

var (
	ErrDisabled           = errors.New("blueprint generator disabled")
	ErrGenerationFailed   = errors.New("failed to generate blueprint from AI")
	ErrEmptyResponse      = errors.New("failed to parse blueprint from AI response")
	ErrMalformedBlueprint = errors.New("blueprint is not valid JSON")
)

const (
	defaultModel   = "gemini-1.5-pro"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	maxErrorBody   = 64 << 10
)

// NewClient constructs a Client if the supplied configuration is valid.
func NewClient(cfg Config) (*Client, error) {
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrDisabled
	}
	temp := cfg.Temperature
	if temp <= 0 {
		temp = 0.2
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       cfg.Model,
		baseURL:     cfg.BaseURL,
		temperature: temp,
	}, nil
}

// Enabled reports whether the client can make outbound calls.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Model returns the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

// Generate requests a three-step blueprint for the submission.
func (c *Client) Generate(ctx context.Context, submission lead.Submission) (Blueprint, error) {
	if c == nil || !c.Enabled() {
		return Blueprint{}, ErrDisabled
	}

	body, err := json.Marshal(c.buildPayload(submission))
	if err != nil {
		return Blueprint{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return Blueprint{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Blueprint{}, fmt.Errorf("%w: %s", ErrGenerationFailed, redactKey(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logrus.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   strings.TrimSpace(string(raw)),
			"model":  c.model,
		}).Error("gemini api error")
		return Blueprint{}, fmt.Errorf("%w: gemini status %d", ErrGenerationFailed, resp.StatusCode)
	}

	var decoded generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Blueprint{}, fmt.Errorf("%w: decode response: %v", ErrEmptyResponse, err)
	}

	text := decoded.firstText()
	if text == "" {
		logrus.WithFields(logrus.Fields{
			"candidates":    len(decoded.Candidates),
			"block_reason":  decoded.PromptFeedback.BlockReason,
			"finish_reason": decoded.firstFinishReason(),
		}).Error("invalid response structure from gemini api")
		return Blueprint{}, ErrEmptyResponse
	}

	return ParseBlueprint(text)
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
}

// ParseBlueprint decodes the model's JSON text and normalizes it.
func ParseBlueprint(text string) (Blueprint, error) {
	content := normalizeJSONBlock(text)
	if content == "" {
		return Blueprint{}, ErrEmptyResponse
	}

	var wire wireBlueprint
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return Blueprint{}, fmt.Errorf("%w: %v", ErrMalformedBlueprint, err)
	}

	blueprint, err := wire.toBlueprint()
	if err != nil {
		return Blueprint{}, err
	}
	if err := blueprint.Normalize(); err != nil {
		return Blueprint{}, err
	}
	return blueprint, nil
}

func normalizeJSONBlock(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.IndexRune(trimmed, '\n'); idx >= 0 {
			trimmed = trimmed[idx+1:]
		}
		trimmed = strings.TrimSpace(trimmed)
		trimmed = strings.TrimSuffix(trimmed, "```")
	}
	trimmed = strings.TrimSpace(trimmed)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end >= start {
		return strings.TrimSpace(trimmed[start : end+1])
	}
	return trimmed
}

func redactKey(msg, key string) string {
	if key == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(key), "REDACTED")
	return strings.ReplaceAll(msg, key, "REDACTED")
}

// The response schema declares step_number as NUMBER, so the model may send 1.0.
type wireStep struct {
	StepNumber            float64 `json:"step_number"`
	StepTitle             string  `json:"step_title"`
	Description           string  `json:"description"`
	KortexAgentSuggestion string  `json:"kortex_agent_suggestion"`
}

type wireBlueprint struct {
	Title   string     `json:"blueprint_title"`
	Steps   []wireStep `json:"steps"`
	Summary string     `json:"summary"`
}

func (w wireBlueprint) toBlueprint() (Blueprint, error) {
	out := Blueprint{
		Title:   w.Title,
		Summary: w.Summary,
		Steps:   make([]Step, 0, len(w.Steps)),
	}
	for i, step := range w.Steps {
		if step.StepNumber != math.Trunc(step.StepNumber) {
			return Blueprint{}, fmt.Errorf("%w: step %d has fractional step_number %v", ErrInvalidBlueprint, i+1, step.StepNumber)
		}
		out.Steps = append(out.Steps, Step{
			StepNumber:            int(step.StepNumber),
			StepTitle:             step.StepTitle,
			Description:           step.Description,
			KortexAgentSuggestion: step.KortexAgentSuggestion,
		})
	}
	return out, nil
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func (r generateContentResponse) firstText() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Candidates[0].Content.Parts[0].Text)
}

func (r generateContentResponse) firstFinishReason() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	return r.Candidates[0].FinishReason
}

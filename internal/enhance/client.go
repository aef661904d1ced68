package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Sentinel errors returned by the text generation client.
var (
	ErrNotConfigured       = errors.New("enhance: text generation not configured")
	ErrUpstream            = errors.New("enhance: text generation failed")
	ErrUnparseableResponse = errors.New("enhance: unparseable text generation response")
)

// DefaultEndpoint is the hosted inference endpoint used when none is configured.
const DefaultEndpoint = "https://api-inference.huggingface.co/models/mistralai/Mixtral-8x7B-Instruct-v0.1"

// Recorder receives one outcome per upstream call.
type Recorder interface {
	ObserveUpstream(upstream, outcome string)
}

// ClientConfig configures the text generation client. Token is a secret and
// must come from the environment.
type ClientConfig struct {
	Endpoint     string
	Token        string
	Timeout      time.Duration
	MaxNewTokens int
	// Temperature nil means 0.7; zero selects greedy decoding.
	Temperature *float64
	HTTPClient  *http.Client
	Recorder    Recorder
}

// Client calls a hosted text generation model.
type Client struct {
	endpoint     string
	token        string
	timeout      time.Duration
	maxNewTokens int
	temperature  float64
	httpClient   *http.Client
	recorder     Recorder
}

type generationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters generationParameters `json:"parameters"`
}

type generationParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

// NewClient constructs the client with defaults for unset fields.
func NewClient(cfg ClientConfig) *Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	maxTokens := cfg.MaxNewTokens
	if maxTokens <= 0 {
		maxTokens = 1200
	}
	temperature := 0.7
	if cfg.Temperature != nil && *cfg.Temperature >= 0 {
		temperature = *cfg.Temperature
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint:     endpoint,
		token:        strings.TrimSpace(cfg.Token),
		timeout:      timeout,
		maxNewTokens: maxTokens,
		temperature:  temperature,
		httpClient:   httpClient,
		recorder:     cfg.Recorder,
	}
}

// Generate sends the prompt and returns only the generated continuation.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.token == "" {
		return "", ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(generationRequest{
		Inputs: prompt,
		Parameters: generationParameters{
			MaxNewTokens: c.maxNewTokens,
			Temperature:  c.temperature,
		},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record("error")
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record("error")
		return "", fmt.Errorf("%w: read body: %w", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.record("error")
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	text, err := GeneratedText(payload)
	if err != nil {
		c.record("unparseable")
		return "", err
	}
	c.record("ok")
	return text, nil
}

// GeneratedText accepts either an array of generation objects or a bare
// string. Anything else is ErrUnparseableResponse.
func GeneratedText(payload []byte) (string, error) {
	if !gjson.ValidBytes(payload) {
		return "", ErrUnparseableResponse
	}
	result := gjson.ParseBytes(payload)
	switch {
	case result.IsArray():
		text := result.Get("0.generated_text")
		if text.Type == gjson.String && text.Str != "" {
			return text.Str, nil
		}
	case result.Type == gjson.String:
		return result.Str, nil
	}
	return "", ErrUnparseableResponse
}

func (c *Client) record(outcome string) {
	if c.recorder != nil {
		c.recorder.ObserveUpstream("textgen", outcome)
	}
}

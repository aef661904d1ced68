package accounting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sentinel errors returned by the accounting client.
var (
	ErrNoData               = errors.New("accounting: no accounting data available")
	ErrUnauthorized         = errors.New("accounting: access denied")
	ErrUpstream             = errors.New("accounting: upstream error")
	ErrUnrecognizedEnvelope = errors.New("accounting: unrecognized response envelope")
)

const (
	defaultBaseURL   = "https://data.brreg.no/regnskapsregisteret/regnskap"
	defaultUserAgent = "finreport/1.0"
	maxBodyBytes     = 10 << 20
)

// Recorder receives one outcome per upstream call.
type Recorder interface {
	ObserveUpstream(upstream, outcome string)
}

// Attempt is one way of calling the register. Attempts are tried in order until
// one of them returns accounts or a definitive "not found".
type Attempt struct {
	Name     string
	Username string
	Password string
}

// ClientConfig configures the accounting register client.
type ClientConfig struct {
	BaseURL       string
	Timeout       time.Duration
	BasicUser     string
	BasicPassword string
	UserAgent     string
	HTTPClient    *http.Client
	Logger        *slog.Logger
	Recorder      Recorder
}

// Client talks to the public accounting register.
type Client struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	attempts   []Attempt
	logger     *slog.Logger
	recorder   Recorder
	now        func() time.Time
}

// NewClient constructs a client. The public attempt always runs first; basic
// auth is appended when credentials are configured.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attempts := []Attempt{{Name: "public"}}
	if cfg.BasicUser != "" {
		attempts = append(attempts, Attempt{Name: "basic-auth", Username: cfg.BasicUser, Password: cfg.BasicPassword})
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		timeout:    timeout,
		httpClient: httpClient,
		attempts:   attempts,
		logger:     logger,
		recorder:   cfg.Recorder,
		now:        time.Now,
	}
}

// WithNow overrides the clock used for records without a period end date.
func (c *Client) WithNow(fn func() time.Time) {
	if fn != nil {
		c.now = fn
	}
}

// Attempts returns the configured attempt list.
func (c *Client) Attempts() []Attempt {
	out := make([]Attempt, len(c.attempts))
	copy(out, c.attempts)
	return out
}

// Summaries fetches and normalizes the filed accounts of an organization.
// It returns ErrNoData when the register has nothing usable.
func (c *Client) Summaries(ctx context.Context, orgNumber string) ([]YearlyFinancialSummary, error) {
	payload, err := c.Fetch(ctx, orgNumber)
	if err != nil {
		return nil, err
	}
	env := Classify(payload)
	if env.Kind == EnvelopeUnrecognized {
		c.record("unrecognized")
		return nil, ErrUnrecognizedEnvelope
	}
	if len(env.Records) == 0 {
		return nil, fmt.Errorf("%w: empty %s envelope", ErrNoData, env.Kind)
	}
	summaries := Normalize(env.Records, c.now())
	if len(summaries) == 0 {
		return nil, fmt.Errorf("%w: no usable financial metrics", ErrNoData)
	}
	c.logger.Debug("accounting summaries normalized",
		slog.String("org_number", orgNumber),
		slog.String("envelope", env.Kind.String()),
		slog.Int("records", len(env.Records)),
		slog.Int("years", len(summaries)),
	)
	return summaries, nil
}

// Fetch returns the raw accounting payload, trying each attempt in order.
func (c *Client) Fetch(ctx context.Context, orgNumber string) ([]byte, error) {
	orgNumber = strings.TrimSpace(orgNumber)
	if orgNumber == "" {
		return nil, fmt.Errorf("accounting: organization number required")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/" + url.PathEscape(orgNumber)
	var lastErr error
	for _, attempt := range c.attempts {
		body, err := c.do(ctx, endpoint, attempt)
		switch {
		case err == nil:
			c.record("ok")
			return body, nil
		case errors.Is(err, ErrNoData):
			c.record("not_found")
			return nil, err
		case ctx.Err() != nil:
			c.record("timeout")
			return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, attempt.Name, ctx.Err())
		}
		c.logger.Warn("accounting attempt failed",
			slog.String("org_number", orgNumber),
			slog.String("attempt", attempt.Name),
			slog.Any("error", err),
		)
		lastErr = err
	}
	c.record("failed")
	return nil, fmt.Errorf("accounting: all attempts failed: %w", lastErr)
}

func (c *Client) do(ctx context.Context, endpoint string, attempt Attempt) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if attempt.Username != "" {
		req.SetBasicAuth(attempt.Username, attempt.Password)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, attempt.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNoData
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s: status %d", ErrUnauthorized, attempt.Name, resp.StatusCode)
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("%w: %s: status %d: %s", ErrUpstream, attempt.Name, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
}

func (c *Client) record(outcome string) {
	if c.recorder != nil {
		c.recorder.ObserveUpstream("accounting", outcome)
	}
}

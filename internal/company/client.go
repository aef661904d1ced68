package company

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// Sentinel errors returned by the registry client.
var (
	ErrNotFound     = errors.New("company: not found")
	ErrInvalidQuery = errors.New("company: query required")
	ErrUpstream     = errors.New("company: registry unavailable")
)

const (
	defaultBaseURL   = "https://data.brreg.no/enhetsregisteret/api"
	defaultUserAgent = "finreport/1.0"
	defaultPageSize  = 10
)

var orgNumberPattern = regexp.MustCompile(`^\d{9}$`)

// IsOrganizationNumber reports whether query is a nine digit organization number.
func IsOrganizationNumber(query string) bool {
	return orgNumberPattern.MatchString(strings.TrimSpace(query))
}

// Cache stores lookup results between requests.
type Cache interface {
	BuildKey(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error
}

// Recorder receives one outcome per upstream call.
type Recorder interface {
	ObserveUpstream(upstream, outcome string)
}

// ClientConfig configures the registry client.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	PageSize   int
	UserAgent  string
	HTTPClient *http.Client
	Cache      Cache
	Logger     *slog.Logger
	Recorder   Recorder
}

// Client queries the company registry.
type Client struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	pageSize   int
	httpClient *http.Client
	cache      Cache
	logger     *slog.Logger
	recorder   Recorder
	group      singleflight.Group
}

type searchResponse struct {
	Embedded *struct {
		Units []Entity `json:"enheter"`
	} `json:"_embedded,omitempty"`
}

// NewClient constructs a registry client.
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
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		timeout:    timeout,
		pageSize:   pageSize,
		httpClient: httpClient,
		cache:      cfg.Cache,
		logger:     logger,
		recorder:   cfg.Recorder,
	}
}

// PageSize is the maximum number of suggestions returned by Search.
func (c *Client) PageSize() int {
	return c.pageSize
}

// Lookup resolves one company by organization number or, failing that, by the
// first name match.
func (c *Client) Lookup(ctx context.Context, query string) (Entity, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Entity{}, ErrInvalidQuery
	}
	key := "company:lookup:" + strings.ToLower(query)
	value, err := c.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		var entity Entity
		err := c.cached(ctx, key, &entity, func(ctx context.Context) (interface{}, error) {
			return c.lookup(ctx, query)
		})
		return entity, err
	})
	if err != nil {
		return Entity{}, err
	}
	return value.(Entity), nil
}

// Search returns up to size name matches, capped at the configured page size.
func (c *Client) Search(ctx context.Context, name string, size int) ([]Entity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidQuery
	}
	if size <= 0 || size > c.pageSize {
		size = c.pageSize
	}
	key := "company:search:" + strconv.Itoa(size) + ":" + strings.ToLower(name)
	value, err := c.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		var units []Entity
		err := c.cached(ctx, key, &units, func(ctx context.Context) (interface{}, error) {
			return c.search(ctx, name, size)
		})
		return units, err
	})
	if err != nil {
		return nil, err
	}
	units := value.([]Entity)
	if units == nil {
		units = []Entity{}
	}
	return units, nil
}

// shared collapses concurrent calls for key into one load. The load ignores
// caller cancellation and is bounded by the client timeout; each caller stops
// waiting when its own ctx is done.
func (c *Client) shared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	results := c.group.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return fn(loadCtx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		return res.Val, res.Err
	}
}

func (c *Client) cached(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if c.cache == nil {
		return load(ctx, dest, loader)
	}
	versioned, err := c.cache.BuildKey(ctx, key)
	if err != nil {
		c.logger.Warn("registry cache unavailable", slog.Any("error", err))
		return load(ctx, dest, loader)
	}
	loaded := false
	err = c.cache.FetchJSON(ctx, versioned, dest, func(ctx context.Context) (interface{}, error) {
		loaded = true
		return loader(ctx)
	})
	if err != nil && !loaded {
		c.logger.Warn("registry cache read failed", slog.Any("error", err))
		return load(ctx, dest, loader)
	}
	return err
}

func load(ctx context.Context, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *Client) lookup(ctx context.Context, query string) (Entity, error) {
	if IsOrganizationNumber(query) {
		var entity Entity
		if err := c.getJSON(ctx, c.baseURL+"/enheter/"+url.PathEscape(query), &entity); err != nil {
			return Entity{}, err
		}
		return entity, nil
	}
	units, err := c.search(ctx, query, 1)
	if err != nil {
		return Entity{}, err
	}
	if len(units) == 0 {
		c.record("not_found")
		return Entity{}, ErrNotFound
	}
	return units[0], nil
}

func (c *Client) search(ctx context.Context, name string, size int) ([]Entity, error) {
	params := url.Values{}
	params.Set("navn", name)
	params.Set("size", strconv.Itoa(size))
	var resp searchResponse
	if err := c.getJSON(ctx, c.baseURL+"/enheter?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Embedded == nil {
		return []Entity{}, nil
	}
	return resp.Embedded.Units, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record("error")
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		c.record("not_found")
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		c.record("error")
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		c.record("error")
		return fmt.Errorf("%w: decode: %w", ErrUpstream, err)
	}
	c.record("ok")
	return nil
}

func (c *Client) record(outcome string) {
	if c.recorder != nil {
		c.recorder.ObserveUpstream("registry", outcome)
	}
}

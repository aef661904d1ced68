package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/finreport/finreport/internal/estimate"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"60s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"45s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	RegistryBaseURL    string        `envconfig:"REGISTRY_BASE_URL" default:"https://data.brreg.no/enhetsregisteret/api"`
	AccountingBaseURL  string        `envconfig:"ACCOUNTING_BASE_URL" default:"https://data.brreg.no/regnskapsregisteret/regnskap"`
	AccountingUser     string        `envconfig:"ACCOUNTING_BASIC_USER"`
	AccountingPassword string        `envconfig:"ACCOUNTING_BASIC_PASSWORD"`
	UpstreamTimeout    time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"5s"`
	SuggestionPageSize int           `envconfig:"SUGGESTION_PAGE_SIZE" default:"10"`

	TextGenURL          string        `envconfig:"TEXTGEN_URL"`
	TextGenToken        string        `envconfig:"TEXTGEN_TOKEN"`
	TextGenTimeout      time.Duration `envconfig:"TEXTGEN_TIMEOUT" default:"20s"`
	TextGenMaxNewTokens int           `envconfig:"TEXTGEN_MAX_NEW_TOKENS" default:"1200"`
	TextGenTemperature  float64       `envconfig:"TEXTGEN_TEMPERATURE" default:"0.7"`

	RedisAddr string        `envconfig:"REDIS_ADDR"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"10m"`

	GotenbergURL string `envconfig:"GOTENBERG_URL"`

	EstimateRevenuePerEmployee   float64 `envconfig:"ESTIMATE_REVENUE_PER_EMPLOYEE" default:"850000"`
	EstimateVATRevenueMultiplier float64 `envconfig:"ESTIMATE_VAT_REVENUE_MULTIPLIER" default:"1.2"`
	EstimateVATRatingBonus       int     `envconfig:"ESTIMATE_VAT_RATING_BONUS" default:"1"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.UpstreamTimeout <= 0 {
		return nil, errors.New("upstream timeout must be positive")
	}
	if cfg.SuggestionPageSize <= 0 {
		return nil, errors.New("suggestion page size must be positive")
	}
	if cfg.TextGenTemperature < 0 {
		return nil, errors.New("text generation temperature must not be negative")
	}
	if cfg.AccountingPassword != "" && cfg.AccountingUser == "" {
		return nil, errors.New("accounting password given without user")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// EnhancementEnabled reports whether a text generation token is configured.
func (c *Config) EnhancementEnabled() bool {
	return c != nil && c.TextGenToken != ""
}

// EstimateParams returns the estimator constants from configuration.
func (c *Config) EstimateParams() estimate.Params {
	params := estimate.DefaultParams()
	if c == nil {
		return params
	}
	if c.EstimateRevenuePerEmployee > 0 {
		params.RevenuePerEmployee = c.EstimateRevenuePerEmployee
	}
	if c.EstimateVATRevenueMultiplier > 0 {
		params.VATRevenueMultiplier = c.EstimateVATRevenueMultiplier
	}
	if c.EstimateVATRatingBonus >= 0 {
		params.VATRatingBonus = c.EstimateVATRatingBonus
	}
	return params
}

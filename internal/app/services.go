package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/finreport/finreport/internal/accounting"
	"github.com/finreport/finreport/internal/company"
	"github.com/finreport/finreport/internal/enhance"
	"github.com/finreport/finreport/internal/estimate"
	"github.com/finreport/finreport/internal/observability"
	"github.com/finreport/finreport/internal/platform/cache"
	"github.com/finreport/finreport/internal/report"
	"github.com/finreport/finreport/internal/report/export"
)

// Services bundles the upstream clients and the report pipeline.
type Services struct {
	Cache      *cache.Cache
	Companies  *company.Client
	Accounting *accounting.Client
	Reports    *report.Service
	Gotenberg  *export.Client

	redis *redis.Client
}

// BuildServices wires every component from configuration. Redis, Gotenberg
// and text generation are optional; each is skipped when not configured.
func BuildServices(ctx context.Context, cfg *Config, logger *slog.Logger, metrics *observability.Metrics) (*Services, error) {
	if cfg == nil {
		return nil, errors.New("app: config required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	svc := &Services{}

	var companyCache company.Cache
	if cfg.RedisAddr != "" && !InTestMode() {
		client, err := cache.New(ctx, cfg.RedisAddr, cfg.UpstreamTimeout)
		if err != nil {
			logger.Warn("redis unavailable, lookup cache disabled", slog.Any("error", err))
		} else {
			svc.redis = client
			svc.Cache = cache.NewCache(client, cfg.CacheTTL).WithLogger(logger)
			companyCache = svc.Cache
		}
	}

	svc.Companies = company.NewClient(company.ClientConfig{
		BaseURL:  cfg.RegistryBaseURL,
		Timeout:  cfg.UpstreamTimeout,
		PageSize: cfg.SuggestionPageSize,
		Cache:    companyCache,
		Logger:   logger,
		Recorder: metrics,
	})
	svc.Accounting = accounting.NewClient(accounting.ClientConfig{
		BaseURL:       cfg.AccountingBaseURL,
		Timeout:       cfg.UpstreamTimeout,
		BasicUser:     cfg.AccountingUser,
		BasicPassword: cfg.AccountingPassword,
		Logger:        logger,
		Recorder:      metrics,
	})

	var enhancer report.Enhancer
	if cfg.EnhancementEnabled() {
		generator := enhance.NewClient(enhance.ClientConfig{
			Endpoint:     cfg.TextGenURL,
			Token:        cfg.TextGenToken,
			Timeout:      cfg.TextGenTimeout,
			MaxNewTokens: cfg.TextGenMaxNewTokens,
			Temperature:  &cfg.TextGenTemperature,
			Recorder:     metrics,
		})
		enhancer = enhance.NewEnhancer(generator, enhance.LabelParser{}, logger)
	} else {
		logger.Info("text generation token not set, narrative enhancement disabled")
	}

	var recorder report.Recorder
	if metrics != nil {
		recorder = metrics
	}
	svc.Reports = report.NewService(report.ServiceConfig{
		Companies:   svc.Companies,
		Accounting:  svc.Accounting,
		Synthesizer: report.NewSynthesizer(estimate.New(cfg.EstimateParams())),
		Enhancer:    enhancer,
		Recorder:    recorder,
		Logger:      logger,
	})

	if cfg.GotenbergURL != "" {
		svc.Gotenberg = export.NewClient(cfg.GotenbergURL, 0)
	}
	return svc, nil
}

// Close releases the Redis connection when one was opened.
func (s *Services) Close() error {
	if s == nil || s.redis == nil {
		return nil
	}
	if err := s.redis.Close(); err != nil {
		return fmt.Errorf("close redis: %w", err)
	}
	return nil
}

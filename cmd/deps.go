package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/altscore"
	"github.com/exportdesk/advisor-cli/internal/cache"
	"github.com/exportdesk/advisor-cli/internal/compliance"
	"github.com/exportdesk/advisor-cli/internal/dataset"
	"github.com/exportdesk/advisor-cli/internal/matching"
	"github.com/exportdesk/advisor-cli/internal/provider"
	"github.com/exportdesk/advisor-cli/internal/recommend"
	"github.com/exportdesk/advisor-cli/internal/simulate"
	"github.com/exportdesk/advisor-cli/internal/store"
	"github.com/exportdesk/advisor-cli/pkg/tradeapi"
)

// engine bundles the wired scoring stack for one process. Everything is
// injected at construction; subcommands never reach for globals beyond cfg.
type engine struct {
	Store       store.Store
	Cache       *cache.Cache
	Gate        *compliance.Gate
	Catalog     *dataset.Catalog
	Provider    provider.Interface
	Recommender *recommend.Recommender
	Simulator   *simulate.Simulator
	Matcher     *matching.Matcher
}

// Close releases the persistent store. The rest of the stack holds no
// resources.
func (e *engine) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("store close failed", zap.Error(err))
	}
}

// initStore opens the cache persistence backend named by config.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.Path)
	case "file":
		return store.NewFile(cfg.Store.Path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initEngine wires the full decision stack: store → cache, compliance gate,
// bundled catalog (+ snapshot overlays), provider, and the three
// orchestrators. With no API key configured the static provider serves the
// bundled catalog and every request degrades gracefully to the offline
// tiers.
func initEngine(ctx context.Context) (*engine, error) {
	if err := cfg.Validate("score"); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	gate := compliance.NewGate(cfg.Compliance.PolicyPath)
	catalog := dataset.Open(cfg.Datasets.Dir)
	resultCache := cache.New(st, cfg.Cache.TTL())

	var prov provider.Interface
	if cfg.TradeAPI.Key != "" {
		api := tradeapi.NewClient(cfg.TradeAPI.Key,
			tradeapi.WithBaseURL(cfg.TradeAPI.BaseURL),
			tradeapi.WithRateLimit(cfg.TradeAPI.RateRPS, cfg.TradeAPI.RateBurst),
			tradeapi.WithRetry(cfg.TradeAPI.RetryConfig()),
		)
		prov = provider.NewLive(api, cfg.TradeAPI.BreakerConfig())
	} else {
		zap.L().Warn("no trade API key configured, serving bundled catalog data only")
		prov = provider.NewStatic(catalog)
	}

	alt := altscore.New(catalog, gate)

	return &engine{
		Store:       st,
		Cache:       resultCache,
		Gate:        gate,
		Catalog:     catalog,
		Provider:    prov,
		Recommender: recommend.New(prov, gate, resultCache, alt),
		Simulator:   simulate.New(prov, gate, catalog),
		Matcher:     matching.New(prov, gate, catalog),
	}, nil
}

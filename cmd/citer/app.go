package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mohammad-safakhou/citer/config"
	"github.com/mohammad-safakhou/citer/internal/citation"
	"github.com/mohammad-safakhou/citer/internal/runtime"
	"github.com/mohammad-safakhou/citer/repository"
	"github.com/mohammad-safakhou/citer/tools/web_fetch"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// app is the wiring shared by every command.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	fetcher   web_fetch.WebFetcher
	index     citation.Index
	telemetry *runtime.Telemetry
	closeIdx  func() error
}

func newApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logger, err := runtime.NewLogger(cfg.General)
	if err != nil {
		return nil, err
	}

	fetcher, err := web_fetch.NewWebFetcher(web_fetch.FetcherType(cfg.Fetch.Type), cfg.Fetch.Timeout, cfg.Fetch.MaxBytes, cfg.Fetch.UserAgent)
	if err != nil {
		return nil, err
	}

	repoType := repository.RepoTypeNone
	if cfg.Storage.Redis.Enabled {
		repoType = repository.RepoTypeRedis
	}
	index, closeIdx, err := repository.NewLogIndex(ctx, repoType, cfg.Storage.Redis, logger)
	if err != nil {
		return nil, err
	}

	tel, err := runtime.SetupTelemetry(ctx, cfg.Telemetry, version)
	if err != nil {
		_ = closeIdx()
		return nil, err
	}
	citation.RegisterMetrics(prometheus.DefaultRegisterer)

	return &app{
		cfg:       cfg,
		logger:    logger,
		fetcher:   fetcher,
		index:     index,
		telemetry: tel,
		closeIdx:  closeIdx,
	}, nil
}

func (a *app) generator(style citation.Style) *citation.Generator {
	return citation.NewGenerator(a.fetcher,
		citation.WithLogger(a.logger),
		citation.WithOutputLog(a.cfg.Output.LogFile),
		citation.WithIndex(a.index),
		citation.WithFetchTimeout(a.cfg.Fetch.Timeout),
		citation.WithDefaultStyle(style),
	)
}

// styleOrDefault resolves a --style flag against the configured default.
func (a *app) styleOrDefault(flag string) (string, error) {
	if flag == "" {
		flag = a.cfg.Output.DefaultStyle
	}
	if flag == "" {
		return string(citation.Harvard), nil
	}
	st, ok := citation.ParseStyle(flag)
	if !ok {
		return "", fmt.Errorf("unsupported style %q (see `citer styles`)", flag)
	}
	return string(st), nil
}

func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.logger.Warn("telemetry shutdown", zap.Error(err))
	}
	if err := a.closeIdx(); err != nil {
		a.logger.Warn("index close", zap.Error(err))
	}
	_ = a.logger.Sync()
}

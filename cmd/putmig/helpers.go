package main

import (
	"fmt"
	"log/slog"
	"time"

	"putmig/internal/config"
	"putmig/internal/ledger"
	"putmig/internal/logging"
	"putmig/internal/putio"
	"putmig/internal/transfer"
	"putmig/internal/workflow"
)

func loadConfig(configFlag *string) (*config.Config, error) {
	path := ""
	if configFlag != nil {
		path = *configFlag
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

func newManager(cfg *config.Config, logger *slog.Logger, opts ...workflow.Option) (*workflow.Manager, error) {
	client, err := putio.New(putio.Config{
		Token:             cfg.Putio.Token,
		BaseURL:           cfg.Putio.BaseURL,
		UserAgent:         cfg.Advanced.UserAgent,
		RetryLimit:        cfg.Download.RetryLimit,
		RequestsPerSecond: cfg.Advanced.APIRequestsPerSecond,
	})
	if err != nil {
		return nil, err
	}

	led := ledger.Open(
		cfg.State.FilePath,
		time.Duration(cfg.State.SaveFrequencySeconds)*time.Second,
		logger,
	)

	executor := transfer.New(transfer.Config{
		DestinationDir:    cfg.Destination.BasePath,
		Connections:       cfg.Download.Connections,
		Timeout:           time.Duration(cfg.Download.Timeout) * time.Second,
		PreserveStructure: cfg.Destination.PreserveStructure,
		UseFallback:       cfg.Advanced.UseFallbackDownloader,
	}, logger)

	return workflow.NewManager(cfg, client, led, executor, logger, opts...), nil
}

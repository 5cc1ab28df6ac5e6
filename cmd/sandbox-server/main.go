package main

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shopzone/storeclient/internal/config"
	"github.com/shopzone/storeclient/internal/sandbox"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	srv := sandbox.NewServer(cfg.Sandbox, logger)

	logger.Info("sandbox API listening",
		zap.String("port", cfg.Sandbox.Port),
		zap.String("environment", cfg.Environment),
	)
	if err := srv.Run(":" + cfg.Sandbox.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Environment != "production" {
		zcfg = zap.NewDevelopmentConfig()
	}
	if lvl, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zcfg.Build()
}

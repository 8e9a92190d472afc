// cmd/iconview/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/waozixyz/iconview/internal/app"
	"github.com/waozixyz/iconview/internal/config"
	"github.com/waozixyz/iconview/render/raylib"
)

func main() {
	name := filepath.Base(os.Args[0])
	cfg, err := config.Load(name, os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		fmt.Fprintf(os.Stderr, "Usage: %s -file <project_file>\n", name)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := raylib.NewRaylibRenderer(float32(cfg.PreviewScale), raylib.WithLogger(logger.Named("raylib")))
	if err := app.Run(ctx, cfg, renderer, logger); err != nil {
		logger.Fatal("Run failed", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	logConfig := zap.NewProductionConfig()
	if cfg.Dev {
		logConfig = zap.NewDevelopmentConfig()
	}
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logConfig.Level = zap.NewAtomicLevelAt(level)
	return logConfig.Build()
}

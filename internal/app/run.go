// internal/app/run.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/waozixyz/iconview/internal/config"
	"github.com/waozixyz/iconview/render"
)

// Run is the property grid tool, independent of the specific renderer. It
// returns when the window closes or ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, renderer render.Renderer, logger *zap.Logger) error {
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, logger.Named("metrics"))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Metrics server shutdown failed", zap.Error(err))
			}
		}()
	}

	logger.Info("Loading project", zap.String("file", cfg.ProjectFile))
	sess, err := openSession(cfg.ProjectFile, renderer, logger)
	if err != nil {
		return fmt.Errorf("failed to open project %s: %w", cfg.ProjectFile, err)
	}

	if err := renderer.Init(cfg.Window()); err != nil {
		renderer.Cleanup()
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	defer renderer.Cleanup()
	// textures must go before the window does
	defer func() { sess.close() }()

	layout := newGridLayout(float32(cfg.UIScale), float32(cfg.PreviewScale))
	var scrollY float32

	logger.Info("Entering main loop")
	for !renderer.ShouldClose() {
		if ctx.Err() != nil {
			break
		}

		input := renderer.PollEvents()
		if input.ReloadRequested {
			logger.Info("Reloading project", zap.String("file", cfg.ProjectFile))
			next, err := openSession(cfg.ProjectFile, renderer, logger)
			if err != nil {
				logger.Error("Reload failed, keeping current project", zap.Error(err))
			} else {
				sess.close()
				sess = next
			}
		}
		scrollY -= input.ScrollY * layout.TextHeight
		if scrollY < 0 {
			scrollY = 0
		}

		renderer.BeginFrame()
		sess.drawGrid(ctx, renderer, layout, sess.guard.BeginFrame(), scrollY, cfg.FieldColumnPreview)
		renderer.EndFrame()
	}

	logger.Info("Exiting")
	return nil
}

func serveMetrics(addr string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("Starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return srv
}

// Package config loads the icon preview tool settings from the environment
// and command line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/caarlos0/env/v11"

	"github.com/waozixyz/iconview/render"
)

// Config holds every setting of the tool. Flags override environment values.
type Config struct {
	ProjectFile string `env:"ICONVIEW_PROJECT"`

	WindowWidth  int     `env:"ICONVIEW_WINDOW_WIDTH" envDefault:"1024"`
	WindowHeight int     `env:"ICONVIEW_WINDOW_HEIGHT" envDefault:"720"`
	Title        string  `env:"ICONVIEW_TITLE" envDefault:"Icon Preview"`
	UIScale      float64 `env:"ICONVIEW_UI_SCALE" envDefault:"1"`

	// FieldColumnPreview shows icons inline next to field values.
	FieldColumnPreview bool    `env:"ICONVIEW_FIELD_COLUMN_PREVIEW" envDefault:"true"`
	PreviewScale       float64 `env:"ICONVIEW_PREVIEW_SCALE" envDefault:"1"`

	// MetricsAddr enables the /metrics endpoint when set, e.g. ":9090".
	MetricsAddr string `env:"ICONVIEW_METRICS_ADDR"`

	LogLevel string `env:"ICONVIEW_LOG_LEVEL" envDefault:"info"`
	Dev      bool   `env:"ICONVIEW_DEV"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment, then args, and validates the result.
func Load(name string, args []string, output io.Writer) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	fs.StringVar(&cfg.ProjectFile, "file", cfg.ProjectFile, "Path to the project file (YAML or JSON)")
	fs.IntVar(&cfg.WindowWidth, "width", cfg.WindowWidth, "Window width")
	fs.IntVar(&cfg.WindowHeight, "height", cfg.WindowHeight, "Window height")
	fs.Float64Var(&cfg.UIScale, "ui-scale", cfg.UIScale, "UI scale factor")
	fs.Float64Var(&cfg.PreviewScale, "preview-scale", cfg.PreviewScale, "Icon preview display scale")
	fs.BoolVar(&cfg.FieldColumnPreview, "preview", cfg.FieldColumnPreview, "Show inline icon previews")
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Listen address for Prometheus metrics")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.Dev, "dev", cfg.Dev, "Development logging")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.ProjectFile == "" {
		errs = append(errs, errors.New("project file is required (-file or ICONVIEW_PROJECT)"))
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		errs = append(errs, fmt.Errorf("invalid window size %dx%d", c.WindowWidth, c.WindowHeight))
	}
	if c.PreviewScale <= 0 {
		errs = append(errs, fmt.Errorf("preview scale must be positive, got %v", c.PreviewScale))
	}
	if c.UIScale <= 0 {
		errs = append(errs, fmt.Errorf("ui scale must be positive, got %v", c.UIScale))
	}
	return errors.Join(errs...)
}

// Window returns the renderer window settings.
func (c Config) Window() render.WindowConfig {
	w := render.DefaultWindowConfig()
	w.Width = c.WindowWidth
	w.Height = c.WindowHeight
	w.Title = c.Title
	w.ScaleFactor = float32(c.UIScale)
	return w
}

package config

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("iconview", []string{"-file", "project.yaml"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "project.yaml", cfg.ProjectFile)
	assert.Equal(t, 1024, cfg.WindowWidth)
	assert.Equal(t, 720, cfg.WindowHeight)
	assert.True(t, cfg.FieldColumnPreview)
	assert.Equal(t, 1.0, cfg.PreviewScale)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.MetricsAddr)

	w := cfg.Window()
	assert.Equal(t, "Icon Preview", w.Title)
	assert.Equal(t, float32(1), w.ScaleFactor)
}

func TestLoadEnvThenFlags(t *testing.T) {
	t.Setenv("ICONVIEW_PROJECT", "from-env.yaml")
	t.Setenv("ICONVIEW_PREVIEW_SCALE", "2.5")
	t.Setenv("ICONVIEW_FIELD_COLUMN_PREVIEW", "false")
	t.Setenv("ICONVIEW_METRICS_ADDR", ":9090")

	cfg, err := Load("iconview", nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "from-env.yaml", cfg.ProjectFile)
	assert.Equal(t, 2.5, cfg.PreviewScale)
	assert.False(t, cfg.FieldColumnPreview)
	assert.Equal(t, ":9090", cfg.MetricsAddr)

	cfg, err = Load("iconview", []string{"-file", "flag.yaml", "-preview-scale", "0.5", "-preview=true"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "flag.yaml", cfg.ProjectFile)
	assert.Equal(t, 0.5, cfg.PreviewScale)
	assert.True(t, cfg.FieldColumnPreview)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("iconview", nil, io.Discard)
	assert.ErrorContains(t, err, "project file is required")

	_, err = Load("iconview", []string{"-file", "p.yaml", "-preview-scale", "0", "-width", "0"}, io.Discard)
	require.Error(t, err)
	assert.ErrorContains(t, err, "preview scale")
	assert.ErrorContains(t, err, "window size")

	_, err = Load("iconview", []string{"-bogus"}, io.Discard)
	assert.Error(t, err)

	t.Setenv("ICONVIEW_WINDOW_WIDTH", "wide")
	_, err = Load("iconview", []string{"-file", "p.yaml"}, io.Discard)
	assert.ErrorContains(t, err, "parse env:")
}

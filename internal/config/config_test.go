package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 640, cfg.Dimensions.Width)
	assert.Equal(t, 360, cfg.Dimensions.Height)
	assert.Equal(t, "jpg", cfg.Output.Format)
	assert.Equal(t, "nlabel.idl", cfg.Output.NotationFile)
	assert.False(t, cfg.Input.SkipMissingImages)
	assert.False(t, cfg.Input.LegacyBasename)
}

func TestLoadFromFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "output:\n  quality: 95\ninput:\n  skip_missing_images: true\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 95, cfg.Output.Quality)
	assert.True(t, cfg.Input.SkipMissingImages)
	assert.Equal(t, "jpg", cfg.Output.Format)
	assert.Equal(t, 640, cfg.Dimensions.Width)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: [unterminated"), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestSaveToFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Output.Format = "webp"
	cfg.Output.Lossless = true
	cfg.Input.LegacyBasename = true

	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Dimensions.Width = 0 }},
		{"zero height", func(c *Config) { c.Dimensions.Height = 0 }},
		{"odd width", func(c *Config) { c.Dimensions.Width = 641 }},
		{"quality too low", func(c *Config) { c.Output.Quality = 0 }},
		{"quality too high", func(c *Config) { c.Output.Quality = 101 }},
		{"unknown format", func(c *Config) { c.Output.Format = "gif" }},
		{"empty notation file", func(c *Config) { c.Output.NotationFile = "" }},
		{"notation file with dir", func(c *Config) { c.Output.NotationFile = "sub/nlabel.idl" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	cfg.Output.Format = "PNG"
	assert.NoError(t, cfg.Validate())
}

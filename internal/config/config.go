package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/menta2k/image-augmenter/pkg/types"
)

// Config holds the application configuration
type Config struct {
	Dimensions types.Dimensions `yaml:"dimensions"`
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
}

// InputConfig controls how the source dataset is read
type InputConfig struct {
	// SkipMissingImages logs and skips unreadable source images instead of aborting.
	SkipMissingImages bool `yaml:"skip_missing_images"`
	// LegacyBasename truncates image names at the first dot when naming outputs.
	LegacyBasename bool `yaml:"legacy_basename"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Format       string `yaml:"format"`
	Quality      int    `yaml:"quality"`
	Lossless     bool   `yaml:"lossless"`
	NotationFile string `yaml:"notation_file"`
}

// SupportedFormats lists the accepted output image formats.
var SupportedFormats = []string{"jpg", "png", "webp"}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Dimensions: types.Dimensions{Width: 640, Height: 360},
		Output: OutputConfig{
			Format:       "jpg",
			Quality:      75,
			NotationFile: "nlabel.idl",
		},
	}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Dimensions.Width < 2 || c.Dimensions.Height < 1 {
		return fmt.Errorf("dimensions must be at least 2x1, got %dx%d", c.Dimensions.Width, c.Dimensions.Height)
	}

	// Pixels and boxes are cut at the same whole-pixel centerline.
	if c.Dimensions.Width%2 != 0 {
		return fmt.Errorf("dimensions.width must be even, got %d", c.Dimensions.Width)
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	format := strings.ToLower(c.Output.Format)
	supported := false
	for _, f := range SupportedFormats {
		if format == f {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("output.format %q is not one of %s", c.Output.Format, strings.Join(SupportedFormats, ", "))
	}

	if c.Output.NotationFile == "" || filepath.Base(c.Output.NotationFile) != c.Output.NotationFile {
		return fmt.Errorf("output.notation_file must be a plain file name, got %q", c.Output.NotationFile)
	}

	return nil
}

// Package config loads runtime settings from the environment.
//
// Every variable is optional. Unset or unparsable values fall back to the
// defaults, then the whole Config is validated. Call godotenv.Load before
// Load to pick up a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/ironsheep/quad-finder-mcp/internal/detection"
	"github.com/ironsheep/quad-finder-mcp/internal/geometry"
	"github.com/ironsheep/quad-finder-mcp/internal/pipeline"
)

// Environment variable names.
const (
	EnvGradientThreshold  = "QUAD_MCP_GRADIENT_THRESHOLD"
	EnvMinPixelCount      = "QUAD_MCP_MIN_PIXEL_COUNT"
	EnvMaxBoxAreaFraction = "QUAD_MCP_MAX_BOX_AREA_FRACTION"
	EnvMinFillRatio       = "QUAD_MCP_MIN_FILL_RATIO"
	EnvEpsilonFraction    = "QUAD_MCP_EPSILON_FRACTION"
	EnvBlurRadius         = "QUAD_MCP_BLUR_RADIUS"
	EnvLogLevel           = "QUAD_MCP_LOG_LEVEL"
	EnvLogFile            = "QUAD_MCP_LOG_FILE"
)

var validate = validator.New()

// Config holds detection defaults and logging settings.
type Config struct {
	GradientThreshold  int     `validate:"gte=1,lte=2040"`
	MinPixelCount      int     `validate:"gte=1"`
	MaxBoxAreaFraction float64 `validate:"gt=0,lte=1"`
	MinFillRatio       float64 `validate:"gte=0,lte=1"`
	EpsilonFraction    float64 `validate:"gt=0,lt=1"`
	BlurRadius         float64 `validate:"gte=0,lte=50"` // 0 disables pre-blur
	LogLevel           string  `validate:"oneof=trace debug info warn error"`
	LogFile            string  // empty: stderr only
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		GradientThreshold:  pipeline.DefaultGradientThreshold,
		MinPixelCount:      detection.DefaultMinPixelCount,
		MaxBoxAreaFraction: detection.DefaultMaxBoxAreaFraction,
		MinFillRatio:       detection.DefaultMinFillRatio,
		EpsilonFraction:    geometry.DefaultEpsilonFraction,
		BlurRadius:         0,
		LogLevel:           "info",
	}
}

// Load reads the environment on top of Default and validates the result.
func Load() (*Config, error) {
	d := Default()
	cfg := &Config{
		GradientThreshold:  getEnvAsInt(EnvGradientThreshold, d.GradientThreshold),
		MinPixelCount:      getEnvAsInt(EnvMinPixelCount, d.MinPixelCount),
		MaxBoxAreaFraction: getEnvAsFloat(EnvMaxBoxAreaFraction, d.MaxBoxAreaFraction),
		MinFillRatio:       getEnvAsFloat(EnvMinFillRatio, d.MinFillRatio),
		EpsilonFraction:    getEnvAsFloat(EnvEpsilonFraction, d.EpsilonFraction),
		BlurRadius:         getEnvAsFloat(EnvBlurRadius, d.BlurRadius),
		LogLevel:           getEnv(EnvLogLevel, d.LogLevel),
		LogFile:            getEnv(EnvLogFile, d.LogFile),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its allowed range.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Thresholds returns the candidate selection thresholds.
func (c *Config) Thresholds() detection.Thresholds {
	return detection.Thresholds{
		MinPixelCount:      c.MinPixelCount,
		MaxBoxAreaFraction: c.MaxBoxAreaFraction,
		MinFillRatio:       c.MinFillRatio,
	}
}

// PipelineOptions returns pipeline options for a width×height frame.
func (c *Config) PipelineOptions(width, height int) pipeline.Options {
	return pipeline.Options{
		Width:             width,
		Height:            height,
		GradientThreshold: c.GradientThreshold,
		Thresholds:        c.Thresholds(),
		EpsilonFraction:   c.EpsilonFraction,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

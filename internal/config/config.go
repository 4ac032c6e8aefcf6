package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mj1618/screen-pilot/internal/engine"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SCREENPILOT_"

// Config is the root configuration structure.
type Config struct {
	Engine      EngineConfig      `yaml:"engine"`
	Window      WindowConfig      `yaml:"window"`
	Vision      VisionConfig      `yaml:"vision"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Logging     LoggingConfig     `yaml:"logging"`
	Serve       ServeConfig       `yaml:"serve"`
}

// EngineConfig contains retry loop settings.
type EngineConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	// Retries is the default locate budget for steps that do not set one.
	Retries engine.RetryBudget `yaml:"retries"`
}

// WindowConfig contains defaults for window waits.
type WindowConfig struct {
	MaxWait  time.Duration `yaml:"max_wait"`
	Interval time.Duration `yaml:"interval"`
}

// VisionConfig contains template matching settings.
type VisionConfig struct {
	// Confidence is the minimum similarity (0-1] for a match.
	Confidence float64 `yaml:"confidence"`
	// Scale downsamples screen and template before matching (0-1].
	Scale float64 `yaml:"scale"`
	// PixelRatio converts captured pixels to input points (2 on Retina displays).
	PixelRatio float64 `yaml:"pixel_ratio"`
}

// DiagnosticsConfig contains failure screenshot settings.
type DiagnosticsConfig struct {
	Dir      string `yaml:"dir"`
	Annotate bool   `yaml:"annotate"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	// Context adds the focused window and display rotation to every record.
	Context bool `yaml:"context"`
}

// ServeConfig contains MCP server settings.
type ServeConfig struct {
	Transport string `yaml:"transport"`
	Port      int    `yaml:"port"`
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			PollInterval: engine.DefaultPollInterval,
			Retries:      engine.Finite(3),
		},
		Window: WindowConfig{
			MaxWait:  engine.DefaultWindowMaxWait,
			Interval: engine.DefaultWindowInterval,
		},
		Vision: VisionConfig{
			Confidence: 0.8,
			Scale:      0.5,
			PixelRatio: 1,
		},
		Diagnostics: DiagnosticsConfig{
			Dir:      "",
			Annotate: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "text",
			Output:  "stderr",
			Context: true,
		},
		Serve: ServeConfig{
			Transport: "stdio",
			Port:      8080,
		},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults, .env and environment variables apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// A missing .env file is not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies SCREENPILOT_SECTION_KEY variables.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvPrefix + "ENGINE_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sENGINE_POLL_INTERVAL: %w", EnvPrefix, err)
		}
		cfg.Engine.PollInterval = d
	}
	if v := os.Getenv(EnvPrefix + "ENGINE_RETRIES"); v != "" {
		b, err := engine.ParseRetryBudget(v)
		if err != nil {
			return fmt.Errorf("%sENGINE_RETRIES: %w", EnvPrefix, err)
		}
		cfg.Engine.Retries = b
	}
	if v := os.Getenv(EnvPrefix + "VISION_CONFIDENCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sVISION_CONFIDENCE: %w", EnvPrefix, err)
		}
		cfg.Vision.Confidence = f
	}
	if v := os.Getenv(EnvPrefix + "VISION_PIXEL_RATIO"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sVISION_PIXEL_RATIO: %w", EnvPrefix, err)
		}
		cfg.Vision.PixelRatio = f
	}
	if v := os.Getenv(EnvPrefix + "DIAGNOSTICS_DIR"); v != "" {
		cfg.Diagnostics.Dir = v
	}
	if v := os.Getenv(EnvPrefix + "LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []string

	if c.Engine.PollInterval <= 0 {
		errs = append(errs, "engine.poll_interval must be positive")
	}
	if c.Window.MaxWait <= 0 {
		errs = append(errs, "window.max_wait must be positive")
	}
	if c.Window.Interval <= 0 {
		errs = append(errs, "window.interval must be positive")
	}
	if c.Vision.Confidence <= 0 || c.Vision.Confidence > 1 {
		errs = append(errs, "vision.confidence must be in (0, 1]")
	}
	if c.Vision.Scale <= 0 || c.Vision.Scale > 1 {
		errs = append(errs, "vision.scale must be in (0, 1]")
	}
	if c.Vision.PixelRatio <= 0 {
		errs = append(errs, "vision.pixel_ratio must be positive")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("logging.format %q must be json or text", c.Logging.Format))
	}
	switch c.Serve.Transport {
	case "stdio", "streamable-http":
	default:
		errs = append(errs, fmt.Sprintf("serve.transport %q must be stdio or streamable-http", c.Serve.Transport))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

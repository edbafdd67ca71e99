package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/dave/routechoices/document"
	"github.com/dave/routechoices/export"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Parser    string          `mapstructure:"parser"`
	Output    OutputConfig    `mapstructure:"output"`
	Elevation ElevationConfig `mapstructure:"elevation"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

type ElevationConfig struct {
	Lookup  bool          `mapstructure:"lookup"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from .env, the config file and environment variables, in increasing
// order of precedence. With an empty path, routechoices.yaml is looked up in . and ./configs and
// may be missing. The result is not validated; callers apply their overrides and then call
// Validate.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("parser", string(document.Goquery))
	v.SetDefault("output.format", string(export.JSON))
	v.SetDefault("elevation.lookup", false)
	v.SetDefault("elevation.timeout", 30*time.Second)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %q: %w", path, err)
		}
	} else {
		v.SetConfigName("routechoices")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	// Environment variables: ROUTECHOICES_OUTPUT_FORMAT → output.format
	v.SetEnvPrefix("ROUTECHOICES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that every value is one the tool understands.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	if _, err := document.ParseBackend(c.Parser); err != nil {
		errs = append(errs, fmt.Sprintf("parser: %v", err))
	}
	if _, err := export.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Sprintf("output.format: %v", err))
	}
	if c.Elevation.Lookup && c.Elevation.Timeout <= 0 {
		errs = append(errs, "elevation.timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Regions are the game service deployments a layout can be resolved for.
var Regions = []string{"iTOS", "jTOS", "kTOS", "kTEST"}

// DefaultRegion is parsed when no region is given.
const DefaultRegion = "iTOS"

// EnvPrefix prefixes every environment variable read by New.
const EnvPrefix = "TOSPARSER"

// Settings holds everything a run needs besides the source data itself.
type Settings struct {
	Region       string          `mapstructure:"region"`
	Layout       string          `mapstructure:"layout"`
	OutputDir    string          `mapstructure:"output_dir"`
	Translations string          `mapstructure:"translations"`
	Icons        string          `mapstructure:"icons"`
	Logging      LoggingSettings `mapstructure:"logging"`
}

// LoggingSettings holds structured logging settings.
type LoggingSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance with defaults and environment lookups in
// place. Callers may bind flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("region", DefaultRegion)
	v.SetDefault("layout", "")
	v.SetDefault("output_dir", "")
	v.SetDefault("translations", "")
	v.SetDefault("icons", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetConfigName("tosparser")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file and returns validated settings. An
// explicit configFile must exist; the default tosparser.yaml may be absent.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &s, nil
}

// Validate checks the settings and normalizes the region, level and format
// spellings.
func (s *Settings) Validate() error {
	region, err := ParseRegion(s.Region)
	if err != nil {
		return err
	}
	s.Region = region

	s.Logging.Level = strings.ToLower(s.Logging.Level)
	switch s.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q: must be 'debug', 'info', 'warn', or 'error'", s.Logging.Level)
	}

	s.Logging.Format = strings.ToLower(s.Logging.Format)
	if s.Logging.Format != "text" && s.Logging.Format != "json" {
		return fmt.Errorf("invalid logging.format %q: must be 'text' or 'json'", s.Logging.Format)
	}
	return nil
}

// ParseRegion matches a region name case-insensitively and returns its
// canonical spelling.
func ParseRegion(s string) (string, error) {
	for _, r := range Regions {
		if strings.EqualFold(r, s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("invalid region %q: must be one of %s", s, strings.Join(Regions, ", "))
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tranaapp/trana/internal/constants"
	apperrors "github.com/tranaapp/trana/internal/errors"
)

// Config holds settings read from the settings file and TRANA_* environment variables.
type Config struct {
	StoragePrefix     string        `mapstructure:"storage_prefix"`
	APIBaseURL        string        `mapstructure:"api_base_url"`
	APITimeout        time.Duration `mapstructure:"api_timeout"`
	APIRatePerMinute  int           `mapstructure:"api_rate_per_minute"`
	ExpiryWarningDays int           `mapstructure:"expiry_warning_days"`
	Notifier          string        `mapstructure:"notifier"`
	Export            ExportConfig  `mapstructure:"export"`
}

type ExportConfig struct {
	S3Bucket   string `mapstructure:"s3_bucket"`
	S3Region   string `mapstructure:"s3_region"`
	S3Endpoint string `mapstructure:"s3_endpoint"`
	S3Prefix   string `mapstructure:"s3_prefix"`
	// Static credentials, normally supplied through TRANA_EXPORT_S3_* variables.
	// When empty the default AWS credential chain is used.
	S3AccessKeyID     string `mapstructure:"s3_access_key_id"`
	S3SecretAccessKey string `mapstructure:"s3_secret_access_key"`
}

var validNotifiers = map[string]bool{"console": true, "tray": true, "none": true}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StoragePrefix:     constants.DefaultStoragePrefix,
		APIBaseURL:        constants.DefaultAPIBaseURL,
		APITimeout:        constants.DefaultAPITimeout,
		APIRatePerMinute:  constants.DefaultAPIRatePerMinute,
		ExpiryWarningDays: constants.DefaultExpiryWarningDays,
		Notifier:          constants.DefaultNotifier,
		Export:            ExportConfig{S3Prefix: "exports"},
	}
}

// Load reads path (if it exists) and the environment on top of the defaults.
// A missing settings file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(strings.ToUpper(constants.AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) {
					return nil, fmt.Errorf("%w: read %s: %v", apperrors.ErrConfig, path, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: decode settings: %v", apperrors.ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("storage_prefix", d.StoragePrefix)
	v.SetDefault("api_base_url", d.APIBaseURL)
	v.SetDefault("api_timeout", d.APITimeout)
	v.SetDefault("api_rate_per_minute", d.APIRatePerMinute)
	v.SetDefault("expiry_warning_days", d.ExpiryWarningDays)
	v.SetDefault("notifier", d.Notifier)
	v.SetDefault("export.s3_bucket", d.Export.S3Bucket)
	v.SetDefault("export.s3_region", d.Export.S3Region)
	v.SetDefault("export.s3_endpoint", d.Export.S3Endpoint)
	v.SetDefault("export.s3_prefix", d.Export.S3Prefix)
	v.SetDefault("export.s3_access_key_id", "")
	v.SetDefault("export.s3_secret_access_key", "")
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StoragePrefix) == "" {
		return fmt.Errorf("%w: storage_prefix cannot be empty", apperrors.ErrConfig)
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("%w: api_base_url must start with http:// or https://", apperrors.ErrConfig)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("%w: api_timeout must be positive", apperrors.ErrConfig)
	}
	if c.APIRatePerMinute < 1 {
		return fmt.Errorf("%w: api_rate_per_minute must be at least 1", apperrors.ErrConfig)
	}
	if c.ExpiryWarningDays < 0 {
		return fmt.Errorf("%w: expiry_warning_days cannot be negative", apperrors.ErrConfig)
	}
	if !validNotifiers[c.Notifier] {
		return fmt.Errorf("%w: notifier must be one of console, tray, none", apperrors.ErrConfig)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// The dotenv keys understood by the loader. Real environment variables with
// the same names take precedence over the file.
var configKeys = []string{
	"folio_base_url",
	"folio_tenant",
	"folio_user",
	"folio_password",
	"folio_timeout",
	"log_level",
	"log_format",
	"log_color",
}

// Load resolves the configuration from a dotenv-style file and the process
// environment. An empty configPath falls back to ./.env and
// ~/.folioctl/folio.env; a missing file is fine as long as the environment
// supplies the required values.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")

	setDefaults(v)

	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	explicit := configPath != ""
	if !explicit {
		configPath = findConfigFile()
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	cfg := &Config{
		Folio: FolioConfig{
			BaseURL:  v.GetString("folio_base_url"),
			Tenant:   v.GetString("folio_tenant"),
			Username: v.GetString("folio_user"),
			Password: v.GetString("folio_password"),
			Timeout:  time.Duration(v.GetInt("folio_timeout")) * time.Second,
		},
		Logging: LoggingConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
			Color:  v.GetBool("log_color"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file present in the standard
// locations, or empty when there is none.
func findConfigFile() string {
	candidates := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".folioctl", "folio.env"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("folio_timeout", 60)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("log_color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Folio.BaseURL == "" {
		return fmt.Errorf("folio_base_url is required")
	}
	if cfg.Folio.Tenant == "" {
		return fmt.Errorf("folio_tenant is required")
	}
	if cfg.Folio.Username == "" || cfg.Folio.Password == "" {
		return fmt.Errorf("folio_user and folio_password are required")
	}
	if cfg.Folio.Timeout <= 0 {
		return fmt.Errorf("folio_timeout must be a positive number of seconds")
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

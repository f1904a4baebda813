package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Folio   FolioConfig
	Logging LoggingConfig
}

// FolioConfig holds the FOLIO connection and credential details. The core
// client only ever sees these resolved values, never the config file.
type FolioConfig struct {
	BaseURL  string
	Tenant   string
	Username string
	Password string
	Timeout  time.Duration
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Color  bool
}

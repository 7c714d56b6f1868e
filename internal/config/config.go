package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	OpenAI   OpenAIConfig
	Wearable WearableConfig
	Archive  ArchiveConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// OpenAIConfig holds generation service configuration
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	RequestTimeout time.Duration
}

// WearableConfig holds wearable data source configuration
type WearableConfig struct {
	SimulatorSeed int64
}

// ArchiveConfig holds report archive configuration. Azure credentials are
// optional; without them reports are kept in memory only.
type ArchiveConfig struct {
	AccountName     string
	AccountKey      string
	ReportContainer string
}

// UseBlobStorage reports whether Azure credentials are configured
func (c ArchiveConfig) UseBlobStorage() bool {
	return c.AccountName != "" && c.AccountKey != ""
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.requesttimeout", 30*time.Second)

	v.SetDefault("wearable.simulatorseed", int64(1))

	v.SetDefault("archive.reportcontainer", "health-reports")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	v.BindEnv("openai.apikey", "OPENAI_API_KEY")
	v.BindEnv("openai.baseurl", "OPENAI_BASE_URL")
	v.BindEnv("openai.model", "OPENAI_MODEL")

	v.BindEnv("wearable.simulatorseed", "WEARABLE_SIMULATOR_SEED")

	v.BindEnv("archive.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("archive.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("archive.reportcontainer", "AZURE_STORAGE_REPORT_CONTAINER")

	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.apikey is required")
	}

	if c.OpenAI.Model == "" {
		return fmt.Errorf("openai.model is required")
	}

	if c.OpenAI.RequestTimeout <= 0 {
		return fmt.Errorf("openai.requesttimeout must be positive")
	}

	return nil
}

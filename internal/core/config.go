package core

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/jo-hoe/imgup/internal/common"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort        = 8080
	DefaultEnvironment = "development"

	envPrefix = "IMGUP_"
)

type ServiceConfig struct {
	Port int `yaml:"port" env:"PORT" validate:"min=0,max=65535"`
	// APIEndpoint is the base address every image API call is made under.
	APIEndpoint string `yaml:"apiEndpoint" env:"API_ENDPOINT" validate:"required,url"`
	// StorageURL is where image bytes are served from; only used to show the
	// image on its detail page.
	StorageURL string `yaml:"storageURL" env:"STORAGE_URL" validate:"omitempty,url"`
	// UploadRateLimit is the number of uploads per second allowed per client. Zero disables it.
	UploadRateLimit float64 `yaml:"uploadRateLimit" env:"UPLOAD_RATE_LIMIT" validate:"min=0"`
	SentryDSN       string  `yaml:"sentryDSN" env:"SENTRY_DSN"`
	Environment     string  `yaml:"environment" env:"ENVIRONMENT"`
	Debug           bool    `yaml:"debug" env:"DEBUG"`
}

// LoadConfig loads configuration from the specified YAML file and applies
// IMGUP_* environment overrides on top.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	return LoadConfigWithEndpoint(configPath, "")
}

// LoadConfigFromEnvironment builds the configuration from defaults and
// IMGUP_* environment variables only.
func LoadConfigFromEnvironment() (*ServiceConfig, error) {
	return LoadConfigWithEndpoint("", "")
}

// LoadConfigWithEndpoint reads configPath (skipped when empty), applies the
// environment and then apiEndpoint, when set, before validating.
func LoadConfigWithEndpoint(configPath, apiEndpoint string) (*ServiceConfig, error) {
	config := defaultConfig()
	if configPath != "" {
		// Read the config file
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}

		// Parse YAML
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := applyEnvironment(config); err != nil {
		return nil, err
	}
	if apiEndpoint != "" {
		config.APIEndpoint = apiEndpoint
	}

	if err := validateConfig(config); err != nil {
		if configPath != "" {
			return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func defaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port:        DefaultPort,
		Environment: DefaultEnvironment,
	}
}

func applyEnvironment(config *ServiceConfig) error {
	if err := env.ParseWithOptions(config, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}
	return nil
}

// validateConfig ensures the configuration can be used to reach the API
func validateConfig(config *ServiceConfig) error {
	return common.ValidateStruct(config)
}

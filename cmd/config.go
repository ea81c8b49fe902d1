package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mattsolo1/grove-core/config"
	"github.com/mattsolo1/grove-sandbox/pkg/backend"
)

//go:generate sh -c "cd .. && go run ./tools/schema-generator/"

const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"

	// DevelopmentBaseURL is the backend address used when running locally.
	DevelopmentBaseURL = "http://localhost:8000"

	envPrefix      = "SANDBOX"
	defaultLogFile = "sandbox.log"
)

// SandboxConfig defines the structure for the 'sandbox' section in grove.yml.
// Every field can be overridden with a SANDBOX_ prefixed environment variable.
type SandboxConfig struct {
	Environment string `yaml:"environment,omitempty" json:"environment,omitempty" envconfig:"ENVIRONMENT" jsonschema:"enum=development,enum=production,description=Selects the default backend address"`
	APIBaseURL  string `yaml:"api_base_url,omitempty" json:"api_base_url,omitempty" envconfig:"API_BASE_URL" jsonschema:"description=Backend base URL; overrides the environment default"`
	Timeout     string `yaml:"timeout,omitempty" json:"timeout,omitempty" envconfig:"TIMEOUT" jsonschema:"description=Per-request timeout as a Go duration (e.g. 60s)"`
	LogFile     string `yaml:"log_file,omitempty" json:"log_file,omitempty" envconfig:"LOG_FILE" jsonschema:"description=Where logs go while the terminal UI is running"`
}

// configOverrides carries values set on the command line.
type configOverrides struct {
	APIBaseURL string
	Timeout    string
}

// loadSandboxConfig loads the core grove config, unmarshals the 'sandbox'
// extension and layers .env, environment and flag overrides on top of it.
func loadSandboxConfig(overrides configOverrides) (*SandboxConfig, error) {
	// Load the config using LoadFrom to get the full hierarchy (global -> project -> override)
	coreCfg, err := config.LoadFrom(".")
	if err != nil {
		// It's okay if the core config doesn't exist, we'll just use an empty one.
		coreCfg = &config.Config{}
	}

	var cfg SandboxConfig
	if err := coreCfg.UnmarshalExtension("sandbox", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse 'sandbox' configuration from grove.yml: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Warn("Could not read .env file")
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if overrides.APIBaseURL != "" {
		cfg.APIBaseURL = overrides.APIBaseURL
	}
	if overrides.Timeout != "" {
		cfg.Timeout = overrides.Timeout
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overlays SANDBOX_* variables. Unset variables leave the field alone.
func (c *SandboxConfig) applyEnv() error {
	if err := envconfig.Process(envPrefix, c); err != nil {
		return fmt.Errorf("read %s_* environment: %w", envPrefix, err)
	}
	return nil
}

func (c *SandboxConfig) applyDefaults() {
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	if c.Environment == "" {
		c.Environment = EnvironmentDevelopment
	}
	if c.Timeout == "" {
		c.Timeout = backend.DefaultTimeout.String()
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(os.TempDir(), defaultLogFile)
	}
}

// Validate checks that the configuration can produce a client.
func (c *SandboxConfig) Validate() error {
	switch c.Environment {
	case EnvironmentDevelopment, EnvironmentProduction:
	default:
		return fmt.Errorf("unknown environment %q (expected %s or %s)", c.Environment, EnvironmentDevelopment, EnvironmentProduction)
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	_, err := c.ResolveBaseURL()
	return err
}

// ResolveBaseURL picks the backend address. An explicit URL always wins;
// otherwise development talks to localhost and production has no default.
func (c *SandboxConfig) ResolveBaseURL() (string, error) {
	if url := strings.TrimSpace(c.APIBaseURL); url != "" {
		return strings.TrimRight(url, "/"), nil
	}
	if c.Environment == EnvironmentProduction {
		return "", fmt.Errorf("api_base_url is required in production (set it in grove.yml, %s_API_BASE_URL or --api-url)", envPrefix)
	}
	return DevelopmentBaseURL, nil
}

// RequestTimeout parses the configured timeout.
func (c *SandboxConfig) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return backend.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", d)
	}
	return d, nil
}

// NewClient builds the HTTP backend client described by the configuration.
func (c *SandboxConfig) NewClient() (*backend.HTTPClient, error) {
	baseURL, err := c.ResolveBaseURL()
	if err != nil {
		return nil, err
	}
	timeout, err := c.RequestTimeout()
	if err != nil {
		return nil, err
	}
	return backend.NewHTTPClient(baseURL, timeout), nil
}

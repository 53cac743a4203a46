package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Export engines.
const (
	EngineChrome = "chrome"
	EngineRemote = "remote"
)

// Config represents the full application configuration surface.
type Config struct {
	Server      ServerConfig
	Sessions    SessionConfig
	Certificate CertificateConfig
	Export      ExportConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
	Env  string
}

// SessionConfig controls how long abandoned form sessions live.
type SessionConfig struct {
	TTL           time.Duration
	SweepSchedule string
}

// CertificateConfig holds the values printed on every certificate.
type CertificateConfig struct {
	NumberPrefix  string
	IssuerName    string
	IssuerTagline string
	IssuerAddress string
}

// ExportConfig selects and configures the PDF engine.
type ExportConfig struct {
	Engine            string
	ChromeBin         string
	ChromeDebuggerURL string
	ChromeHeadless    bool
	ConverterURL      string
	Timeout           time.Duration
	OutputDir         string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	ttl, err := durationWithDefault("SESSION_TTL", 2*time.Hour)
	if err != nil {
		return nil, err
	}
	timeout, err := durationWithDefault("EXPORT_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	headless, err := boolWithDefault("CHROME_HEADLESS", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
			Env:  getenvWithDefault("APP_ENV", "production"),
		},
		Sessions: SessionConfig{
			TTL:           ttl,
			SweepSchedule: getenvWithDefault("SESSION_SWEEP_SCHEDULE", "@every 5m"),
		},
		Certificate: CertificateConfig{
			NumberPrefix:  getenvWithDefault("CERT_PREFIX", "CSC"),
			IssuerName:    os.Getenv("ISSUER_NAME"),
			IssuerTagline: os.Getenv("ISSUER_TAGLINE"),
			IssuerAddress: os.Getenv("ISSUER_ADDRESS"),
		},
		Export: ExportConfig{
			Engine:            getenvWithDefault("EXPORT_ENGINE", EngineChrome),
			ChromeBin:         os.Getenv("CHROME_BIN"),
			ChromeDebuggerURL: os.Getenv("CHROME_DEBUGGER_URL"),
			ChromeHeadless:    headless,
			ConverterURL:      os.Getenv("EXPORT_CONVERTER_URL"),
			Timeout:           timeout,
			OutputDir:         os.Getenv("EXPORT_OUTPUT_DIR"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Sessions.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	if c.Sessions.SweepSchedule == "" {
		return errors.New("SESSION_SWEEP_SCHEDULE must be provided")
	}

	if c.Certificate.NumberPrefix == "" {
		return errors.New("CERT_PREFIX must not be empty")
	}

	switch c.Export.Engine {
	case EngineChrome:
	case EngineRemote:
		if c.Export.ConverterURL == "" {
			return errors.New("EXPORT_CONVERTER_URL must be provided for the remote engine")
		}
	default:
		return fmt.Errorf("unsupported EXPORT_ENGINE %q", c.Export.Engine)
	}

	if c.Export.Timeout <= 0 {
		return errors.New("EXPORT_TIMEOUT must be positive")
	}

	return nil
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func boolWithDefault(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

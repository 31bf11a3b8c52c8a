package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Store  StoreConfig
	OTLP   OTLPConfig
	Client ClientConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port     string
	Host     string
	BasePath string
}

// StoreConfig selects the reference API's storage. Driver is one of memory,
// sqlite or postgres; DSN is ignored for memory.
type StoreConfig struct {
	Driver string
	DSN    string
}

type OTLPConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Environment string
}

// ClientConfig configures how the CLI reaches the products API.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	VerifyMode string
}

type LogConfig struct {
	Level  slog.Level
	Format string
}

var defaults = map[string]any{
	"SERVER_HOST":                 "0.0.0.0",
	"SERVER_PORT":                 "8080",
	"API_BASE_PATH":               "/bp/products",
	"STORE_DRIVER":                "memory",
	"STORE_DSN":                   "",
	"OTEL_ENABLED":                false,
	"OTEL_EXPORTER_OTLP_ENDPOINT": "localhost:4317",
	"OTEL_SERVICE_NAME":           "products-api",
	"OTEL_ENVIRONMENT":            "development",
	"PRODUCTS_API_URL":            "http://localhost:8080/bp/products",
	"PRODUCTS_API_TIMEOUT":        "10s",
	"PRODUCTS_VERIFY_MODE":        "verification",
	"LOG_LEVEL":                   "info",
	"LOG_FORMAT":                  "json",
}

// LoadConfig loads configuration from a .env file (if present) and
// environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:     v.GetString("SERVER_HOST"),
			Port:     v.GetString("SERVER_PORT"),
			BasePath: "/" + strings.Trim(v.GetString("API_BASE_PATH"), "/"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
			DSN:    v.GetString("STORE_DSN"),
		},
		OTLP: OTLPConfig{
			Enabled:     v.GetBool("OTEL_ENABLED"),
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
			Environment: v.GetString("OTEL_ENVIRONMENT"),
		},
		Client: ClientConfig{
			BaseURL:    v.GetString("PRODUCTS_API_URL"),
			VerifyMode: strings.ToLower(v.GetString("PRODUCTS_VERIFY_MODE")),
		},
		Log: LogConfig{
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
	}

	timeout, err := time.ParseDuration(v.GetString("PRODUCTS_API_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRODUCTS_API_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid PRODUCTS_API_TIMEOUT: must be positive, got %s", timeout)
	}
	cfg.Client.Timeout = timeout

	if err := cfg.Log.Level.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	switch cfg.Log.Format {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want json or text", cfg.Log.Format)
	}

	switch cfg.Client.VerifyMode {
	case "verification", "lookup":
	default:
		return nil, fmt.Errorf("invalid PRODUCTS_VERIFY_MODE %q: want verification or lookup", cfg.Client.VerifyMode)
	}

	return cfg, nil
}

// Validate checks the store selection. Only the API server opens a store,
// so LoadConfig leaves this to it.
func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case "memory":
	case "sqlite", "postgres":
		if c.DSN == "" {
			return fmt.Errorf("STORE_DSN must be set for store driver %q", c.Driver)
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: want memory, sqlite or postgres", c.Driver)
	}
	return nil
}

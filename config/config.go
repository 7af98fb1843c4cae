package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	AliExpress AliExpressConfig
	Firecrawl  FirecrawlConfig
	Catalog    CatalogConfig
	Search     SearchConfig
	Rates      RatesConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// AliExpressConfig holds the RapidAPI credentials for the AliExpress source
type AliExpressConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// FirecrawlConfig holds the scraping/search API used by the Alibaba,
// Made-in-China and web search sources
type FirecrawlConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CatalogConfig selects the local listing catalog backend
type CatalogConfig struct {
	Type     string `mapstructure:"type"` // "memory", "postgres" or "sqlite"
	DSN      string `mapstructure:"dsn"`
	Path     string `mapstructure:"path"`
	SeedFile string `mapstructure:"seed_file"`
}

// SearchConfig holds orchestration limits
type SearchConfig struct {
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	MaxResults   int           `mapstructure:"max_results"`
}

// RatesConfig overrides the static currency tables. Keys are ISO codes,
// values convert one unit into the table's reference currency.
type RatesConfig struct {
	Ranking map[string]float64 `mapstructure:"ranking"` // to USD
	Margin  map[string]float64 `mapstructure:"margin"`  // to EUR
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/supplierlens/")

	// Environment variable settings
	v.SetEnvPrefix("SUPPLIERLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})
	v.SetDefault("server.request_timeout", "60s")

	// Source defaults; API keys stay empty so unconfigured sources are skipped
	v.SetDefault("aliexpress.api_key", "")
	v.SetDefault("aliexpress.base_url", "https://aliexpress-datahub.p.rapidapi.com")
	v.SetDefault("firecrawl.api_key", "")
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev")

	// Catalog defaults
	v.SetDefault("catalog.type", "memory")
	v.SetDefault("catalog.dsn", "")
	v.SetDefault("catalog.path", "data/catalog.db")
	v.SetDefault("catalog.seed_file", "")

	// Search defaults
	v.SetDefault("search.fetch_timeout", "25s")
	v.SetDefault("search.max_results", 20)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 30)
	v.SetDefault("ratelimit.burst", 10)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Type {
	case "memory":
	case "postgres":
		if config.Catalog.DSN == "" {
			return fmt.Errorf("catalog DSN is required when catalog type is 'postgres' (set SUPPLIERLENS_CATALOG_DSN)")
		}
	case "sqlite":
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when catalog type is 'sqlite'")
		}
	default:
		return fmt.Errorf("catalog type must be 'memory', 'postgres' or 'sqlite', got: %s", config.Catalog.Type)
	}

	if config.Search.FetchTimeout <= 0 {
		return fmt.Errorf("search fetch timeout must be positive, got: %s", config.Search.FetchTimeout)
	}

	if config.Search.MaxResults < 1 || config.Search.MaxResults > 20 {
		return fmt.Errorf("search max results must be between 1 and 20, got: %d", config.Search.MaxResults)
	}

	if config.RateLimit.PerIP < 0 || config.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limits cannot be negative")
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/kapu/character-search-go/internal/constants"
	"github.com/kapu/character-search-go/internal/domain"
)

type Config struct {
	Provider    ProviderConfig
	Translation TranslationConfig
	ScrapeProxy ScrapeProxyConfig
	Import      ImportConfig
	Search      SearchConfig
	Logging     LoggingConfig
}

type ProviderConfig struct {
	Selected    domain.Provider
	DefaultSort domain.SortKey
}

type TranslationConfig struct {
	Enabled    bool
	Endpoint   string
	APIKey     string
	TargetLang string
}

type ScrapeProxyConfig struct {
	Endpoint string
	APIKey   string
}

type ImportConfig struct {
	HostBaseURL string
}

type SearchConfig struct {
	PageSize    int
	NSFWDefault bool
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Provider: ProviderConfig{
			Selected:    domain.Provider(getEnv("CATALOG_PROVIDER", string(domain.ProviderCharhub))),
			DefaultSort: domain.SortKey(getEnv("CATALOG_SORT", string(domain.SortDefault))),
		},
		Translation: TranslationConfig{
			Enabled:    getEnvBool("TRANSLATE_ENABLED", false),
			Endpoint:   getEnv("TRANSLATE_ENDPOINT", ""),
			APIKey:     getEnv("TRANSLATE_API_KEY", ""),
			TargetLang: getEnv("TRANSLATE_TARGET_LANG", constants.TranslateConfig.DefaultTargetLang),
		},
		ScrapeProxy: ScrapeProxyConfig{
			Endpoint: getEnv("SCRAPE_PROXY_ENDPOINT", ""),
			APIKey:   getEnv("SCRAPE_PROXY_API_KEY", ""),
		},
		Import: ImportConfig{
			HostBaseURL: getEnv("IMPORT_HOST_BASE_URL", "http://localhost:8000"),
		},
		Search: SearchConfig{
			PageSize:    getEnvInt("SEARCH_PAGE_SIZE", constants.SearchConfig.DefaultPageSize),
			NSFWDefault: getEnvBool("SEARCH_NSFW_DEFAULT", false),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Provider.Selected {
	case domain.ProviderCharhub, domain.ProviderRealm:
	default:
		return fmt.Errorf("CATALOG_PROVIDER must be %q or %q", domain.ProviderCharhub, domain.ProviderRealm)
	}
	if !c.Provider.Selected.SupportsSort(c.Provider.DefaultSort) {
		return fmt.Errorf("sort key %q is not supported by provider %q", c.Provider.DefaultSort, c.Provider.Selected)
	}
	if c.Provider.Selected == domain.ProviderRealm {
		if c.ScrapeProxy.Endpoint == "" {
			return fmt.Errorf("SCRAPE_PROXY_ENDPOINT is required for the realm provider")
		}
		if c.ScrapeProxy.APIKey == "" {
			return fmt.Errorf("SCRAPE_PROXY_API_KEY is required for the realm provider")
		}
	}
	if c.Translation.Enabled {
		if c.Translation.Endpoint == "" {
			return fmt.Errorf("TRANSLATE_ENDPOINT is required when translation is enabled")
		}
		if c.Translation.APIKey == "" {
			return fmt.Errorf("TRANSLATE_API_KEY is required when translation is enabled")
		}
	}
	if c.Search.PageSize < 1 {
		return fmt.Errorf("SEARCH_PAGE_SIZE must be >= 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

package config

import (
	"time"

	"github.com/Skotchmaster/product_catalog/internal/external"
	"github.com/Skotchmaster/product_catalog/internal/searchindex"
	"github.com/Skotchmaster/product_catalog/pkg/config"
)

type ServiceConfig struct {
	config.Config

	AutoMigrate bool
	Seed        bool

	Search searchindex.Config

	OTLPEndpoint   string
	MetricsEnabled bool

	External external.Config

	ShutdownTimeout time.Duration
}

// SearchEnabled reports whether an Elasticsearch cluster is configured.
func (c ServiceConfig) SearchEnabled() bool {
	return c.Search.URL != ""
}

func Load() ServiceConfig {
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustOneOf(cfg.DatabaseDriver, "DB_DRIVER", "postgres", "sqlite")

	def := external.DefaultConfig()
	return ServiceConfig{
		Config: cfg,

		AutoMigrate: config.EnvBoolDefault("DB_AUTO_MIGRATE", cfg.DatabaseDriver == "sqlite"),
		Seed:        config.EnvBoolDefault("DB_SEED", false),

		Search: searchindex.Config{
			URL:      config.EnvDefault("ES_URL", ""),
			Username: config.EnvDefault("ES_USER", ""),
			Password: config.EnvDefault("ES_PASSWORD", ""),
			Index:    config.EnvDefault("ES_INDEX", "products"),
		},

		OTLPEndpoint:   config.EnvDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		MetricsEnabled: config.EnvBoolDefault("METRICS_ENABLED", true),

		External: external.Config{
			CEPBaseURL:         config.EnvDefault("CEP_API_BASE_URL", def.CEPBaseURL),
			CurrencyBaseURL:    config.EnvDefault("CURRENCY_API_BASE_URL", def.CurrencyBaseURL),
			RandomUserBaseURL:  config.EnvDefault("RANDOM_USER_API_BASE_URL", def.RandomUserBaseURL),
			GeolocationBaseURL: config.EnvDefault("GEOLOCATION_API_BASE_URL", def.GeolocationBaseURL),
			CryptoBaseURL:      config.EnvDefault("CRYPTO_API_BASE_URL", def.CryptoBaseURL),
			CountryBaseURL:     config.EnvDefault("COUNTRY_API_BASE_URL", def.CountryBaseURL),
			Timeout:            config.EnvDurationDefault("EXTERNAL_API_TIMEOUT", external.DefaultTimeout),
		},

		ShutdownTimeout: config.EnvDurationDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string
	Environment string

	ServerPort int
	LogLevel   string

	DatabaseURL    string
	DatabaseDriver string

	KafkaBrokers []string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "catalog"),
		Environment: EnvDefault("ENVIRONMENT", "development"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   os.Getenv("LOG_LEVEL"),

		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabaseDriver: EnvDefault("DB_DRIVER", "postgres"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

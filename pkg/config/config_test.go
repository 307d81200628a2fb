package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CFG_INT", "42")
	t.Setenv("CFG_BAD_INT", "x")
	t.Setenv("CFG_BOOL", "true")
	t.Setenv("CFG_DUR", "3s")

	assert.Equal(t, 42, EnvIntDefault("CFG_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("CFG_BAD_INT", 1))
	assert.Equal(t, 7, EnvIntDefault("CFG_MISSING", 7))
	assert.True(t, EnvBoolDefault("CFG_BOOL", false))
	assert.True(t, EnvBoolDefault("CFG_MISSING", true))
	assert.Equal(t, 3*time.Second, EnvDurationDefault("CFG_DUR", time.Second))
	assert.Equal(t, "def", EnvDefault("CFG_MISSING", "def"))
}

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://x")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ENVIRONMENT", "Production")

	cfg := Load()
	assert.Equal(t, "catalog", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres://x", cfg.DatabaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.IsProduction())
}

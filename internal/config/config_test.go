package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 3600*time.Second, cfg.CacheTTL)
	assert.Equal(t, 600*time.Second, cfg.NotifyDelay)
	assert.Equal(t, RatingLookupByID, cfg.RatingBookLookup)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Contains(t, cfg.PostgresDSN(), "dbname=bookstore")
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", ":9000")
	t.Setenv("NOTIFY_DELAY", "30")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("RATING_BOOK_LOOKUP", "NAME")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, 30*time.Second, cfg.NotifyDelay)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, RatingLookupByName, cfg.RatingBookLookup)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.PostgresDSN())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	t.Setenv("NOTIFY_DELAY", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "NOTIFY_DELAY")

	t.Setenv("NOTIFY_DELAY", "")
	t.Setenv("RATING_BOOK_LOOKUP", "isbn")
	_, err = Load()
	assert.ErrorContains(t, err, "RATING_BOOK_LOOKUP")

	t.Setenv("RATING_BOOK_LOOKUP", "")
	t.Setenv("DB_DRIVER", "mysql")
	_, err = Load()
	assert.ErrorContains(t, err, "DB_DRIVER")

	t.Setenv("DB_DRIVER", "")
	t.Setenv("POSTGRES_PORT", "abc")
	_, err = Load()
	assert.ErrorContains(t, err, "POSTGRES_PORT")
}

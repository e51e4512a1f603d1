package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: guards
    user: matcher
    password: ${TEST_PG_PASSWORD}
  redis:
    address: localhost:6379
workers:
  find-best-matches:
    enabled: true
    timeout: 5000
  book-guard-slot:
    enabled: false
matching:
  booking_max_attempts: 5
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	t.Setenv("TEST_PG_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "guards", cfg.Database.Elasticsearch.Index)

	assert.Equal(t, 50.0, cfg.Matching.DefaultMaxDistanceKm)
	assert.Equal(t, 3.5, cfg.Matching.DefaultMinRating)
	assert.Equal(t, 40.0, cfg.Matching.AverageSpeedKmh)
	assert.Equal(t, 500.0, cfg.Matching.ReferenceHourlyRate)
	assert.Equal(t, 10, cfg.Matching.DefaultLimit)
	assert.Equal(t, 5, cfg.Matching.AlternativesLimit)
	assert.Equal(t, 4.0, cfg.Matching.PreferredRatingThreshold)
	assert.Equal(t, 14, cfg.Matching.AvailabilityDays)
	assert.Equal(t, 5, cfg.Matching.BookingMaxAttempts)
	assert.Equal(t, time.Minute, cfg.Matching.RosterCacheDuration())

	assert.Equal(t, "none", cfg.Events.Driver)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_Workers(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	w := GetWorkerConfig(cfg, "find-best-matches")
	assert.True(t, w.Enabled)
	assert.Equal(t, 5000, w.Timeout)
	assert.Equal(t, 3, w.MaxRetries)

	assert.False(t, IsWorkerEnabled(cfg, "book-guard-slot"))
	assert.True(t, IsWorkerEnabled(cfg, "unknown-task"))
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "unknown-task").Timeout)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("DATABASE_POSTGRES_HOST", "db.internal")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name  string
		extra string
		want  string
	}{
		{
			name:  "unknown event driver",
			extra: "events:\n  driver: carrier-pigeon\n",
			want:  "events.driver",
		},
		{
			name:  "kafka without brokers",
			extra: "events:\n  driver: kafka\n",
			want:  "events.kafka.brokers",
		},
		{
			name:  "rabbitmq without url",
			extra: "events:\n  driver: rabbitmq\n",
			want:  "events.rabbitmq.url",
		},
		{
			name:  "kafka with brokers",
			extra: "events:\n  driver: kafka\n  kafka:\n    brokers: [localhost:9092]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RABBITMQ_URL", "")
			_, err := LoadFromFile(writeConfig(t, baseYAML+tt.extra))
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile_MissingBroker(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, "database:\n  postgres:\n    host: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "camunda.broker_address")
}

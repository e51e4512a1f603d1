package config

import (
	"fmt"
	"time"
)

type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Database     DatabaseConfig          `mapstructure:"database"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	Matching     MatchingConfig          `mapstructure:"matching"`
	Events       EventsConfig            `mapstructure:"events"`
	Integrations IntegrationConfig       `mapstructure:"integrations"`
	Logging      LoggingConfig           `mapstructure:"logging"`
	Server       ServerConfig            `mapstructure:"server"`
	Registry     RegistryConfig          `mapstructure:"registry"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
	Index     string   `mapstructure:"index"`
}

func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// MatchingConfig tunes the scoring engine and the booking store.
type MatchingConfig struct {
	DefaultMaxDistanceKm     float64 `mapstructure:"default_max_distance_km"`
	DefaultMinRating         float64 `mapstructure:"default_min_rating"`
	AverageSpeedKmh          float64 `mapstructure:"average_speed_kmh"`
	ReferenceHourlyRate      float64 `mapstructure:"reference_hourly_rate"`
	DefaultLimit             int     `mapstructure:"default_limit"`
	AlternativesLimit        int     `mapstructure:"alternatives_limit"`
	PreferredRatingThreshold float64 `mapstructure:"preferred_rating_threshold"`
	AvailabilityDays         int     `mapstructure:"availability_days"`
	BookingMaxAttempts       int     `mapstructure:"booking_max_attempts"`
	RosterCacheTTL           int     `mapstructure:"roster_cache_ttl"` // milliseconds
	GeoPrefilter             bool    `mapstructure:"geo_prefilter"`
}

// EventsConfig selects the booking event publisher: kafka, rabbitmq or none.
type EventsConfig struct {
	Driver string `mapstructure:"driver"`
	Kafka  struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`
	RabbitMQ struct {
		URL        string `mapstructure:"url"`
		Exchange   string `mapstructure:"exchange"`
		Confirms   bool   `mapstructure:"confirms"`
		ConfirmTTL int    `mapstructure:"confirm_timeout"` // milliseconds
	} `mapstructure:"rabbitmq"`
}

type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled            bool   `mapstructure:"enabled"`
			DefaultSMSSenderID string `mapstructure:"default_sms_sender_id"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

func (m MatchingConfig) RosterCacheDuration() time.Duration {
	return GetDuration(m.RosterCacheTTL)
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	OTel     OTelConfig     `mapstructure:"otel"`
	Services ServicesConfig `mapstructure:"services"`
	Booking  BookingConfig  `mapstructure:"booking"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Debug       bool   `mapstructure:"debug"`
	Version     string `mapstructure:"version"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// KafkaConfig holds Kafka/Redpanda connection settings
type KafkaConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Brokers  []string `mapstructure:"brokers"`
	Topic    string   `mapstructure:"topic"`
	ClientID string   `mapstructure:"client_id"`
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret         string        `mapstructure:"secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	Issuer         string        `mapstructure:"issuer"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	ServiceName   string  `mapstructure:"service_name"`
	CollectorAddr string  `mapstructure:"collector_addr"`
	SampleRatio   float64 `mapstructure:"sample_ratio"`
}

// ServicesConfig holds URLs of downstream collaborators
type ServicesConfig struct {
	NotificationURL string `mapstructure:"notification_url"`
	UserStatsURL    string `mapstructure:"user_stats_url"`
	BookingStatsURL string `mapstructure:"booking_stats_url"`
	// CatalogURL serves movie/theater/showtime search and catalog stats
	CatalogURL string `mapstructure:"catalog_url"`
}

// BookingConfig holds tuning knobs for the booking pipeline
type BookingConfig struct {
	// ReleaseRetries bounds the compensation retry loop when seat release fails
	ReleaseRetries int `mapstructure:"release_retries"`
	// ReleaseRetryInterval is the initial backoff between release attempts
	ReleaseRetryInterval time.Duration `mapstructure:"release_retry_interval"`
	// NotifyTimeout caps each notification delivery attempt
	NotifyTimeout time.Duration `mapstructure:"notify_timeout"`
	// NotifyRetries bounds notification redelivery (delivery stays best-effort)
	NotifyRetries int `mapstructure:"notify_retries"`
	// SourceTimeout caps each per-source fetch in dashboard/search aggregation
	SourceTimeout time.Duration `mapstructure:"source_timeout"`
	// IdempotencyTTL is how long completed booking responses stay replayable
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// .env is optional, env vars can carry everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// continue; environment variables may still be set
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	if err := bindConfig(v, cfg); err != nil {
		return nil, fmt.Errorf("failed to bind config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadWithPath loads configuration from a specific path
func LoadWithPath(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	if err := bindConfig(v, cfg); err != nil {
		return nil, fmt.Errorf("failed to bind config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("APP_NAME", "revticket")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "1.0.0")

	// Server defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	// Database defaults
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_DBNAME", "revticket_db")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 100)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 10)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("DATABASE_CONN_MAX_IDLE_TIME", "30m")

	// Redis defaults
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 100)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")

	// Kafka defaults
	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "booking-events")
	v.SetDefault("KAFKA_CLIENT_ID", "revticket")

	// JWT defaults
	v.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("JWT_ISSUER", "revticket")

	// OTel defaults
	v.SetDefault("OTEL_ENABLED", true)
	v.SetDefault("OTEL_SERVICE_NAME", "revticket")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)

	// Downstream services
	v.SetDefault("SERVICES_NOTIFICATION_URL", "http://localhost:8085")
	v.SetDefault("SERVICES_USER_STATS_URL", "http://localhost:8081")
	v.SetDefault("SERVICES_BOOKING_STATS_URL", "http://localhost:8084")
	v.SetDefault("SERVICES_CATALOG_URL", "http://localhost:8082")

	// Booking pipeline defaults
	v.SetDefault("BOOKING_RELEASE_RETRIES", 3)
	v.SetDefault("BOOKING_RELEASE_RETRY_INTERVAL", "200ms")
	v.SetDefault("BOOKING_NOTIFY_TIMEOUT", "2s")
	v.SetDefault("BOOKING_NOTIFY_RETRIES", 1)
	v.SetDefault("BOOKING_SOURCE_TIMEOUT", "1500ms")
	v.SetDefault("BOOKING_IDEMPOTENCY_TTL", "24h")
}

func bindConfig(v *viper.Viper, cfg *Config) error {
	// App
	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Debug = v.GetBool("APP_DEBUG")
	cfg.App.Version = v.GetString("APP_VERSION")

	// Server
	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")

	// Database
	cfg.Database.Host = v.GetString("DATABASE_HOST")
	cfg.Database.Port = v.GetInt("DATABASE_PORT")
	cfg.Database.User = v.GetString("DATABASE_USER")
	cfg.Database.Password = v.GetString("DATABASE_PASSWORD")
	cfg.Database.DBName = v.GetString("DATABASE_DBNAME")
	cfg.Database.SSLMode = v.GetString("DATABASE_SSLMODE")
	cfg.Database.MaxOpenConns = v.GetInt("DATABASE_MAX_OPEN_CONNS")
	cfg.Database.MaxIdleConns = v.GetInt("DATABASE_MAX_IDLE_CONNS")
	cfg.Database.ConnMaxLifetime = v.GetDuration("DATABASE_CONN_MAX_LIFETIME")
	cfg.Database.ConnMaxIdleTime = v.GetDuration("DATABASE_CONN_MAX_IDLE_TIME")

	// Redis
	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.MinIdleConns = v.GetInt("REDIS_MIN_IDLE_CONNS")
	cfg.Redis.DialTimeout = v.GetDuration("REDIS_DIAL_TIMEOUT")
	cfg.Redis.ReadTimeout = v.GetDuration("REDIS_READ_TIMEOUT")
	cfg.Redis.WriteTimeout = v.GetDuration("REDIS_WRITE_TIMEOUT")

	// Kafka
	cfg.Kafka.Enabled = v.GetBool("KAFKA_ENABLED")
	brokersStr := v.GetString("KAFKA_BROKERS")
	cfg.Kafka.Brokers = strings.Split(brokersStr, ",")
	cfg.Kafka.Topic = v.GetString("KAFKA_TOPIC")
	cfg.Kafka.ClientID = v.GetString("KAFKA_CLIENT_ID")

	// JWT
	cfg.JWT.Secret = v.GetString("JWT_SECRET")
	cfg.JWT.AccessTokenTTL = v.GetDuration("JWT_ACCESS_TOKEN_TTL")
	cfg.JWT.Issuer = v.GetString("JWT_ISSUER")

	// OTel
	cfg.OTel.Enabled = v.GetBool("OTEL_ENABLED")
	cfg.OTel.ServiceName = v.GetString("OTEL_SERVICE_NAME")
	cfg.OTel.CollectorAddr = v.GetString("OTEL_COLLECTOR_ADDR")
	cfg.OTel.SampleRatio = v.GetFloat64("OTEL_SAMPLE_RATIO")

	// Services
	cfg.Services.NotificationURL = v.GetString("SERVICES_NOTIFICATION_URL")
	cfg.Services.UserStatsURL = v.GetString("SERVICES_USER_STATS_URL")
	cfg.Services.BookingStatsURL = v.GetString("SERVICES_BOOKING_STATS_URL")
	cfg.Services.CatalogURL = v.GetString("SERVICES_CATALOG_URL")

	// Booking
	cfg.Booking.ReleaseRetries = v.GetInt("BOOKING_RELEASE_RETRIES")
	cfg.Booking.ReleaseRetryInterval = v.GetDuration("BOOKING_RELEASE_RETRY_INTERVAL")
	cfg.Booking.NotifyTimeout = v.GetDuration("BOOKING_NOTIFY_TIMEOUT")
	cfg.Booking.NotifyRetries = v.GetInt("BOOKING_NOTIFY_RETRIES")
	cfg.Booking.SourceTimeout = v.GetDuration("BOOKING_SOURCE_TIMEOUT")
	cfg.Booking.IdempotencyTTL = v.GetDuration("BOOKING_IDEMPOTENCY_TTL")

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.App.Environment == "production" && c.JWT.Secret == "your-secret-key-change-in-production" {
		return fmt.Errorf("JWT secret must be changed in production")
	}

	if c.Booking.ReleaseRetries < 0 {
		return fmt.Errorf("booking release retries must not be negative")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

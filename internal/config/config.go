package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Matching  MatchingConfig
	RateLimit RateLimitConfig
	Events    EventsConfig
	Logging   LoggingConfig
	Gemini    GeminiConfig
	Store     StoreConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	Env             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig is optional; an empty Host disables rate limiting and the
// match stream.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret   string
	Audience string
	TTL      time.Duration
}

type MatchingConfig struct {
	PoolSize int
}

type RateLimitConfig struct {
	LikeLimit  int
	LikeWindow time.Duration
}

type EventsConfig struct {
	Stream  string
	NATSURL string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type StoreConfig struct {
	Driver string
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file path. A missing file is not an
// error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = v.ReadInConfig()

	config := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			Env:             v.GetString("ENV"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:   v.GetString("JWT_SECRET"),
			Audience: v.GetString("JWT_AUDIENCE"),
			TTL:      v.GetDuration("JWT_TTL"),
		},
		Matching: MatchingConfig{
			PoolSize: v.GetInt("MATCH_POOL_SIZE"),
		},
		RateLimit: RateLimitConfig{
			LikeLimit:  v.GetInt("LIKE_RATE_LIMIT"),
			LikeWindow: v.GetDuration("LIKE_RATE_WINDOW"),
		},
		Events: EventsConfig{
			Stream:  v.GetString("EVENTS_STREAM"),
			NATSURL: v.GetString("NATS_URL"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Gemini: GeminiConfig{
			APIKey: v.GetString("GEMINI_API_KEY"),
			Model:  v.GetString("GEMINI_MODEL"),
		},
		Store: StoreConfig{
			Driver: v.GetString("STORE_DRIVER"),
		},
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")

	v.SetDefault("REDIS_PORT", 6379)

	v.SetDefault("JWT_AUDIENCE", "authenticated")
	v.SetDefault("JWT_TTL", time.Hour)

	v.SetDefault("MATCH_POOL_SIZE", 100)
	v.SetDefault("LIKE_RATE_LIMIT", 60)
	v.SetDefault("LIKE_RATE_WINDOW", time.Minute)

	v.SetDefault("EVENTS_STREAM", "match:created")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")

	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT TTL must be positive")
	}
	if c.Matching.PoolSize <= 0 {
		return fmt.Errorf("match pool size must be positive")
	}
	if c.RateLimit.LikeLimit <= 0 || c.RateLimit.LikeWindow <= 0 {
		return fmt.Errorf("like rate limit and window must be positive")
	}
	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetURL returns the postgres:// URL form used by golang-migrate.
func (c *DatabaseConfig) GetURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// GetRedisAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds every runtime setting of the service. Values come from an
// optional TOML file and are overridden by environment variables.
type Config struct {
	Port     string `toml:"port"`
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	DBDriver          string `toml:"db_driver"` // "postgres" or "sqlite"
	PostgresConnStr   string `toml:"postgres_conn_str"`
	SQLitePath        string `toml:"sqlite_path"`
	NotificationStore string `toml:"notification_store"` // "postgres" or "mongo"
	MongoURI          string `toml:"mongo_uri"`
	MongoDatabase     string `toml:"mongo_database"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	CacheTTL      string `toml:"cache_ttl"`

	JWTSecret string `toml:"jwt_secret"`
	JWTTTL    string `toml:"jwt_ttl"`

	FirebaseCredentialsPath string `toml:"firebase_credentials_path"`
	MetricsPort             string `toml:"metrics_port"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		Port:              "8080",
		Env:               "development",
		LogLevel:          "info",
		DBDriver:          "postgres",
		SQLitePath:        "social.db",
		NotificationStore: "postgres",
		MongoDatabase:     "social",
		CacheTTL:          "5m",
		JWTTTL:            "24h",
		MetricsPort:       "9090",
	}
}

// Load reads .env (if present), then the TOML file at path (if non-empty, or
// CONFIG_FILE), then environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, assuming environment variables are set.")
	}

	cfg := Defaults()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.PostgresConnStr = getEnv("POSTGRES_CONN_STR", cfg.PostgresConnStr)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.NotificationStore = getEnv("NOTIFICATION_STORE", cfg.NotificationStore)
	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDatabase = getEnv("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.CacheTTL = getEnv("CACHE_TTL", cfg.CacheTTL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTTTL = getEnv("JWT_TTL", cfg.JWTTTL)
	cfg.FirebaseCredentialsPath = getEnv("FIREBASE_CREDENTIALS_PATH", cfg.FirebaseCredentialsPath)
	cfg.MetricsPort = getEnv("METRICS_PORT", cfg.MetricsPort)
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", raw, err)
		}
		cfg.RedisDB = db
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no usable fallback.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres":
		if c.PostgresConnStr == "" {
			return fmt.Errorf("POSTGRES_CONN_STR must be set when DB_DRIVER is postgres")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.NotificationStore {
	case "postgres":
	case "mongo":
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI must be set when NOTIFICATION_STORE is mongo")
		}
	default:
		return fmt.Errorf("unsupported NOTIFICATION_STORE %q", c.NotificationStore)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if _, err := c.TokenTTL(); err != nil {
		return err
	}
	if _, err := c.UserCacheTTL(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

// TokenTTL is the lifetime of issued access tokens.
func (c *Config) TokenTTL() (time.Duration, error) {
	return parsePositiveDuration("JWT_TTL", c.JWTTTL)
}

// UserCacheTTL is the lifetime of cached user summaries.
func (c *Config) UserCacheTTL() (time.Duration, error) {
	return parsePositiveDuration("CACHE_TTL", c.CacheTTL)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func parsePositiveDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

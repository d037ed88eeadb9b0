package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"CONFIG_FILE", "PORT", "ENV", "LOG_LEVEL", "DB_DRIVER", "POSTGRES_CONN_STR", "SQLITE_PATH",
	"NOTIFICATION_STORE", "MONGO_URI", "MONGO_DATABASE", "REDIS_ADDR", "REDIS_PASSWORD",
	"REDIS_DB", "CACHE_TTL", "JWT_SECRET", "JWT_TTL", "FIREBASE_CREDENTIALS_PATH", "METRICS_PORT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "social.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFileWithEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port = "3000"
db_driver = "sqlite"
sqlite_path = "/tmp/social.db"
jwt_secret = "from-file"
jwt_ttl = "2h"
redis_addr = "localhost:6379"
`)
	t.Setenv("PORT", "4000")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/social.db", cfg.SQLitePath)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "postgres", cfg.NotificationStore)
	assert.Equal(t, "9090", cfg.MetricsPort)

	ttl, err := cfg.TokenTTL()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, ttl)

	cacheTTL, err := cfg.UserCacheTTL()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cacheTTL)
}

func TestLoadUsesConfigFileEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
db_driver = "sqlite"
jwt_secret = "s"
env = "production"
`)
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"missing postgres url": {"JWT_SECRET": "s"},
		"unknown driver":       {"JWT_SECRET": "s", "DB_DRIVER": "mysql"},
		"mongo without uri":    {"JWT_SECRET": "s", "DB_DRIVER": "sqlite", "NOTIFICATION_STORE": "mongo"},
		"unknown store":        {"JWT_SECRET": "s", "DB_DRIVER": "sqlite", "NOTIFICATION_STORE": "kafka"},
		"missing secret":       {"DB_DRIVER": "sqlite"},
		"bad jwt ttl":          {"JWT_SECRET": "s", "DB_DRIVER": "sqlite", "JWT_TTL": "soon"},
		"negative cache ttl":   {"JWT_SECRET": "s", "DB_DRIVER": "sqlite", "CACHE_TTL": "-1m"},
		"bad log level":        {"JWT_SECRET": "s", "DB_DRIVER": "sqlite", "LOG_LEVEL": "loud"},
		"non numeric redis db": {"JWT_SECRET": "s", "DB_DRIVER": "sqlite", "REDIS_DB": "one"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestInitDBWithSQLite(t *testing.T) {
	cfg := Defaults()
	cfg.DBDriver = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "social.db")
	cfg.JWTSecret = "s"

	ctx := context.Background()
	db, err := InitDB(ctx, cfg)
	require.NoError(t, err)
	defer db.CloseDB()

	require.NoError(t, db.Migrate())
	store, err := db.NewStore(ctx)
	require.NoError(t, err)

	exists, err := store.Users.Exists(ctx, 1)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, db.Mongo)
	assert.Nil(t, db.Redis)
}

func TestInitDBFailsOnUnreachableDatabase(t *testing.T) {
	cfg := Defaults()
	cfg.DBDriver = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "missing-dir", "social.db")
	cfg.JWTSecret = "s"

	db, err := InitDB(context.Background(), cfg)
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "failed to ping sqlite")
}

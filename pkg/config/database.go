package config

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/nano-midea/social-api/internal/repositories"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the database connections
type DB struct {
	SQL   *gorm.DB
	Mongo *mongo.Client
	Redis *redis.Client

	mongoDatabase string
}

// InitDB opens the relational database and, when configured, MongoDB and Redis.
func InitDB(ctx context.Context, cfg *Config) (*DB, error) {
	sqlDB, err := openSQL(cfg)
	if err != nil {
		return nil, err
	}
	db := &DB{SQL: sqlDB, mongoDatabase: cfg.MongoDatabase}

	if cfg.NotificationStore == "mongo" {
		client, err := initMongo(ctx, cfg.MongoURI)
		if err != nil {
			db.CloseDB()
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		db.Mongo = client
	}

	if cfg.RedisAddr != "" {
		client, err := initRedis(ctx, cfg)
		if err != nil {
			db.CloseDB()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		db.Redis = client
	}
	return db, nil
}

func openSQL(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(fmt.Sprintf("file:%s?_foreign_keys=1&_busy_timeout=5000", cfg.SQLitePath))
	default:
		dialector = postgres.Open(cfg.PostgresConnStr)
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError:       true,
		DisableAutomaticPing: true,
		Logger:               gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == "sqlite" {
		// one writer at a time
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	if err = sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", cfg.DBDriver, err)
	}

	log.WithField("driver", cfg.DBDriver).Info("Successfully connected to the database")
	return db, nil
}

// initMongo initializes the MongoDB connection
func initMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info("Successfully connected to MongoDB")
	return client, nil
}

func initRedis(ctx context.Context, cfg *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.WithField("addr", cfg.RedisAddr).Info("Successfully connected to Redis")
	return client, nil
}

// Migrate creates or updates the relational schema.
func (db *DB) Migrate() error {
	if err := repositories.AutoMigrate(db.SQL); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// NewStore builds the repository store. Notifications go to MongoDB when it
// is connected.
func (db *DB) NewStore(ctx context.Context) (*repositories.Store, error) {
	store := repositories.NewStore(db.SQL)
	if db.Mongo == nil {
		return store, nil
	}

	notifications := repositories.NewMongoNotificationRepository(db.Mongo.Database(db.mongoDatabase))
	if err := notifications.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create notification indexes: %w", err)
	}
	return store.WithNotifications(notifications), nil
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	if db.SQL != nil {
		sqlDB, err := db.SQL.DB()
		if err != nil {
			log.WithError(err).Error("Error getting SQL DB from GORM")
		} else if err := sqlDB.Close(); err != nil {
			log.WithError(err).Error("Error closing database connection")
		} else {
			log.Info("Database connection closed")
		}
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			log.WithError(err).Error("Error closing MongoDB connection")
		} else {
			log.Info("MongoDB connection closed")
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			log.WithError(err).Error("Error closing Redis connection")
		} else {
			log.Info("Redis connection closed")
		}
	}
}

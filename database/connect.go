package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rpupo63/personal-blog-backend/models"
)

const (
	TypePostgres = "postgres"
	TypeSupabase = "supa"
	TypeSQLite   = "sqlite"
)

// DSN builds the driver connection string for the DB_TYPE in cfg.
func DSN(cfg config.Config) (string, error) {
	switch dbType := strings.ToLower(config.GetString(cfg, "DB_TYPE", TypePostgres)); dbType {
	case TypeSupabase:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(cfg, "SUPABASE_DB_HOST", ""),
			config.GetString(cfg, "SUPABASE_DB_USER", ""),
			config.GetString(cfg, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(cfg, "SUPABASE_DB_NAME", ""),
			config.GetString(cfg, "SUPABASE_DB_PORT", "5432"),
		), nil
	case TypePostgres:
		if url := config.GetString(cfg, "DATABASE_URL", ""); url != "" {
			return url, nil
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(cfg, "DB_HOST", "localhost"),
			config.GetString(cfg, "DB_USER", "postgres"),
			config.GetString(cfg, "DB_PASSWORD", ""),
			config.GetString(cfg, "DB_NAME", "personal_blog"),
			config.GetString(cfg, "DB_PORT", "5432"),
			config.GetString(cfg, "DB_SSLMODE", "disable"),
		), nil
	case TypeSQLite:
		return config.GetString(cfg, "SQLITE_PATH", "blog.db"), nil
	default:
		return "", fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

// Open connects to the database selected by DB_TYPE and verifies the
// connection with a round trip.
func Open(cfg config.Config) (*gorm.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		PrepareStmt: false,
		Logger:      newGormLogger(cfg),
	}

	var dialector gorm.Dialector
	dbType := strings.ToLower(config.GetString(cfg, "DB_TYPE", TypePostgres))
	if dbType == TypeSQLite {
		dialector = sqlite.Open(dsn)
	} else {
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	}

	zlog.Info().Str("dbType", dbType).Msg("connecting to database")
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s database: %w", dbType, err)
	}

	if dbType == TypeSQLite {
		// sqlite serializes writers; a single connection avoids "database is locked".
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("testing database connection: %w", err)
	}

	return db, nil
}

// Migrate creates or updates every table owned by the models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrating models: %w", err)
	}
	return nil
}

// Ping reports whether the database answers within the context deadline.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// gormLogLevel is Warn unless DB_LOG_SQL asks for every statement.
func gormLogLevel(cfg config.Config) logger.LogLevel {
	if config.GetBool(cfg, "DB_LOG_SQL", false) {
		return logger.Info
	}
	return logger.Warn
}

func newGormLogger(cfg config.Config) logger.Interface {
	level := gormLogLevel(cfg)
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}

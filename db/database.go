package db

import (
	"fmt"
	"log"
	"net/url"
	"path/filepath"

	"law_desk_app_go/config"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds clients, cases, documents, calendar events, invoices and the office account.
var DB *gorm.DB

// TemplateDB holds document templates. It lives on Turso when configured.
var TemplateDB *gorm.DB

func gormConfig(environment string) *gorm.Config {
	logLevel := logger.Info
	if environment == "production" {
		logLevel = logger.Warn
	}
	return &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}
}

// Initialize sets up the database connection with WAL mode for concurrency
func Initialize(dbPath string, environment string) error {
	var err error

	// Enable WAL mode for better concurrency support
	dsn := dbPath + "?_journal_mode=WAL&_foreign_keys=on"

	DB, err = gorm.Open(sqlite.Open(dsn), gormConfig(environment))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established (WAL mode enabled)")
	return nil
}

// InitializeTemplateStore opens the template store on Turso (libSQL) when
// TURSO_DATABASE_URL is set, otherwise on a SQLite file next to the main database.
func InitializeTemplateStore(cfg *config.Config) error {
	var err error

	if cfg.TursoDatabaseURL != "" {
		dsn, dsnErr := tursoDSN(cfg.TursoDatabaseURL, cfg.TursoAuthToken)
		if dsnErr != nil {
			return dsnErr
		}
		TemplateDB, err = gorm.Open(sqlite.New(sqlite.Config{
			DriverName: "libsql",
			DSN:        dsn,
		}), gormConfig(cfg.Environment))
		if err != nil {
			return fmt.Errorf("failed to connect to template store: %w", err)
		}
		log.Println("Template store connection established (Turso)")
		return nil
	}

	path := filepath.Join(filepath.Dir(cfg.DBPath), "templates.db")
	TemplateDB, err = gorm.Open(sqlite.Open(path+"?_journal_mode=WAL"), gormConfig(cfg.Environment))
	if err != nil {
		return fmt.Errorf("failed to connect to template store: %w", err)
	}
	log.Printf("Template store connection established (SQLite - path: %s)", path)
	return nil
}

func tursoDSN(rawURL, token string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid TURSO_DATABASE_URL: %w", err)
	}
	if token != "" {
		q := u.Query()
		q.Set("authToken", token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// AutoMigrateTemplates runs migrations against the template store
func AutoMigrateTemplates(models ...interface{}) error {
	if TemplateDB == nil {
		return fmt.Errorf("template store not initialized")
	}

	if err := TemplateDB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run template migrations: %w", err)
	}

	log.Println("Template store migrations completed")
	return nil
}

// Close closes both database connections
func Close() error {
	for _, conn := range []*gorm.DB{DB, TemplateDB} {
		if conn == nil {
			continue
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return err
		}
	}
	return nil
}

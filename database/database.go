package database

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"socialFeed/domain"
)

// Supported dialects.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// DB provides the database connection.
type DB struct {
	// Object-relational mapping.
	Gorm *gorm.DB
	// Either Postgres or SQLite.
	Dialect string
	// Connection info string: a postgres DSN or a sqlite file path.
	ConnectionInfo string
	// MaxOpenConns caps the pool. Zero keeps the driver default,
	// except for sqlite which always uses a single connection.
	MaxOpenConns int
}

// NewDB returns a new instance of DB.
func NewDB(dialect, connectionInfo string) *DB {
	return &DB{
		Dialect:        dialect,
		ConnectionInfo: connectionInfo,
	}
}

// Open opens a new database connection. It also configures logging
// based on whether we're in development or in production.
func Open(db *DB, isProd bool) (err error) {
	if db.ConnectionInfo == "" {
		return fmt.Errorf("connectionInfo required")
	}
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
	if !isProd {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch db.Dialect {
	case Postgres:
		dialector = postgres.Open(db.ConnectionInfo)
	case SQLite:
		dialector = sqlite.Open(sqliteDSN(db.ConnectionInfo))
	default:
		return fmt.Errorf("unsupported dialect %q", db.Dialect)
	}

	db.Gorm, err = gorm.Open(dialector, cfg)
	if err != nil {
		return fmt.Errorf("err opening gorm %s connection: %w", db.Dialect, err)
	}

	sqlDB, err := db.Gorm.DB()
	if err != nil {
		return fmt.Errorf("err getting sql.DB: %w", err)
	}
	if db.Dialect == SQLite {
		// sqlite serializes writers anyway; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else if db.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(db.MaxOpenConns)
	}
	return nil
}

// sqliteDSN turns a bare file path into a DSN with foreign keys and a busy timeout enabled.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}

// AutoMigrate runs database migrations for all tables.
func AutoMigrate(db *DB) error {
	return db.Gorm.AutoMigrate(
		&domain.User{},
		&domain.Post{},
		&domain.Comment{},
		&domain.Like{},
	)
}

// DestructiveReset drops all tables and rebuilds them.
func DestructiveReset(db *DB) error {
	err := db.Gorm.Migrator().DropTable(
		&domain.Like{},
		&domain.Comment{},
		&domain.Post{},
		&domain.User{},
	)
	if err != nil {
		return err
	}
	return AutoMigrate(db)
}

// Close closes the database connection.
func Close(db *DB) error {
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Connect opens the application database. Postgres in deployments, sqlite
// (CGO-free modernc driver) for local development and tests.
// TranslateError is on so unique-constraint races surface as
// gorm.ErrDuplicatedKey regardless of driver.
func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

// ConnectCore opens the agency core database holding core_session and
// core_users. This connection is read-only by convention; nothing here
// ever writes to it.
func ConnectCore(dsn string) (*gorm.DB, error) {
	db, err := Connect(dsn)
	if err != nil {
		return nil, err
	}
	// core tables are chatty on every request; keep gorm quiet about them
	db.Logger = db.Logger.LogMode(logger.Silent)
	return db, nil
}

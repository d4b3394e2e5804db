package main

import (
	"context"
	"flag"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
)

// Runs the SQL migrations in migrations/. The permits table is deliberately
// not created here: it pre-exists, imported from the registry dumps.
func main() {
	var (
		dir     = flag.String("dir", "migrations", "directory with sql migration files")
		command = flag.String("command", "up", "goose command: up, down, status")
	)
	flag.Parse()

	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	goose.SetTableName("schema_migrations")

	if err := goose.RunContext(context.Background(), *command, db, *dir); err != nil {
		log.Fatalf("goose %s: %v", *command, err)
	}
}

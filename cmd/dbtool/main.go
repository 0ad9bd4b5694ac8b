package main

import (
	"context"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"zone-matrix-service/internal/adapters/ledger"
	"zone-matrix-service/internal/platform/db"
)

// dbtool initializes the Postgres schema for the shared spend ledger.
// Deployments that run cmd/matrix from one machine can skip it and use the
// default JSON file ledger instead.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	sqlDB, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	log.Println("Initializing ledger schema...")
	if err := ledger.NewSQLStore(sqlDB).InitSchema(ctx); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}

// Command init_db creates the fundability database if it is missing, applies
// the schema and seeds the built-in opportunity catalog.
//
//	go run scripts/init_db.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"business-fundability-engine/internal/config"
	"business-fundability-engine/internal/services/database"
	"business-fundability-engine/internal/services/matcher"
)

func main() {
	fmt.Println("=== Database Initialization ===")

	cfg, err := config.Load()
	if err != nil {
		fail("Failed to load config", err)
	}
	databaseURL := cfg.DatabaseURL()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := ensureDatabase(ctx, databaseURL); err != nil {
		fail("Failed to prepare database", err)
	}

	db, err := database.NewFromURL(ctx, databaseURL)
	if err != nil {
		fail("Failed to connect to database", err)
	}
	defer db.Close()

	fmt.Println("Applying schema...")
	if err := db.ApplySchema(ctx); err != nil {
		fail("Failed to apply schema", err)
	}

	catalog := matcher.DefaultCatalog()
	seeded, err := db.SeedCatalog(ctx, &catalog)
	if err != nil {
		fail("Failed to seed catalog", err)
	}
	fmt.Printf("Seeded %d catalog opportunities\n", seeded)

	funding, err := database.NewOpportunityRepository(db).ListActiveFunding(ctx)
	if err != nil {
		fmt.Printf("Warning: could not list funding products: %v\n", err)
	} else {
		for _, f := range funding {
			fmt.Printf("  %s (%s) min credit %d\n", f.ProductName, f.LenderName, f.MinCreditScore)
		}
	}

	fmt.Println("Database initialization completed")
}

// ensureDatabase creates the target database through the server's default
// "postgres" database when it does not exist yet.
func ensureDatabase(ctx context.Context, databaseURL string) error {
	connCfg, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("invalid database URL: %w", err)
	}
	target := connCfg.Database

	adminCfg := connCfg.Copy()
	adminCfg.Database = "postgres"

	adminConn, err := pgx.ConnectConfig(ctx, adminCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer adminConn.Close(ctx)

	var exists bool
	if err := adminConn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", target).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check database existence: %w", err)
	}
	if exists {
		fmt.Printf("Database %q already exists\n", target)
		return nil
	}

	if _, err := adminConn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{target}.Sanitize()); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	fmt.Printf("Database %q created\n", target)
	return nil
}

func fail(msg string, err error) {
	fmt.Printf("%s: %v\n", msg, err)
	os.Exit(1)
}

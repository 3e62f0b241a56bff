package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jordanarrivado/ajs-portfolio/internal/config"
	"github.com/jordanarrivado/ajs-portfolio/internal/repository/sqlite"
	"github.com/joho/godotenv"
)

// Applies the embedded schema migrations to a sqlite:// store. MongoDB needs
// no migrations; its indexes are created on first connect.
func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Database.Scheme() != "sqlite" {
		fmt.Fprintf(os.Stderr, "Nothing to migrate for %q stores\n", cfg.Database.Scheme())
		os.Exit(1)
	}

	path := sqlite.PathFromURI(cfg.Database.URI)
	fmt.Printf("Migrating %s...\n", path)

	db, err := sqlite.NewDB(context.Background(), path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := sqlite.RunMigrations(db); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migrations applied")
}

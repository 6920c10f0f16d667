package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"parking-backend/internal/config"
	"parking-backend/internal/db"
	"parking-backend/internal/repositories"
)

// parkingTables are cleared by a reset. users, schema_migrations and
// ticket_counters are kept so printed ticket numbers are never reissued.
var parkingTables = []string{"payments", "parking_entries", "slot_categories"}

func main() {
	configPath := flag.String("config", config.DefaultConfigFile, "Path to the YAML config file")
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("   Reset Parking Database")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE all categories, entries and payments.")
	fmt.Println("Operators and ticket numbering are kept.")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	pool := db.Connect(cfg)
	defer pool.Close()

	if err := resetTables(context.Background(), pool); err != nil {
		log.Fatalf("Reset failed: %v", err)
	}
	fmt.Println("Database reset complete.")
}

func resetTables(ctx context.Context, conn repositories.DBTX) error {
	query := fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(parkingTables, ", "))
	if _, err := conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}

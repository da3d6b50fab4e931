package main

import (
	"log"
	"os"

	"resume-analyzer-be/internal/model"
	"resume-analyzer-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions & Enums (Things GORM AutoMigrate doesn't do perfectly)
	log.Println("Step 1: Setting up Extensions and Enums...")

	setupSQL := []string{
		// Extensions
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,

		// Enums (Idempotent creation)
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'subscription_status') THEN CREATE TYPE subscription_status AS ENUM ('incomplete', 'trialing', 'active', 'past_due', 'cancelled'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'billing_cycle') THEN CREATE TYPE billing_cycle AS ENUM ('monthly', 'annual'); END IF; END $$;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models (The Core Task)
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Subscription{},
		&model.ProcessedBillingEvent{},
		&model.ConversionEvent{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Constraints AutoMigrate cannot express
	log.Println("Step 3: Creating partial unique index...")

	postMigrationSQL := []string{
		// One non-cancelled subscription per user. Cancelled rows are
		// retained for trial history, so a plain unique index won't do.
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_subscriptions_user_live
		 ON subscriptions (user_id) WHERE status <> 'cancelled';`,

		// Webhook routing path: activation and charge events look the row up
		// by the gateway order ref.
		`CREATE INDEX IF NOT EXISTS idx_subscriptions_gateway_ref
		 ON subscriptions (gateway_subscription_ref) WHERE gateway_subscription_ref IS NOT NULL;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("Success: Database migration completed successfully via GORM.")
}

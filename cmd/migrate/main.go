package main

import (
	"database/sql"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"campus-classifieds/internal/config"
	"campus-classifieds/internal/database"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Sanity-check connectivity before running the schema migration
	raw, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer raw.Close()

	if err := raw.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database successfully")

	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to open gorm connection: %v", err)
	}

	log.Println("Running schema migration...")
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migration: %v", err)
	}

	log.Println("Seeding default categories...")
	if err := database.Seed(database.GetDB()); err != nil {
		log.Fatalf("Failed to seed default data: %v", err)
	}

	log.Println("✅ Migration completed successfully!")
}

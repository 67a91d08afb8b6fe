package main

import (
	"context"
	"fmt"
	"log"

	"github.com/alt-ctrl-dev/aba-validator/internal/config"
	"github.com/alt-ctrl-dev/aba-validator/internal/database"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("Starting database setup...")

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbpool, err := database.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer dbpool.Close()

	dbManager := database.NewPostgresDBManager(context.Background(), dbpool)

	fmt.Println("Creating aba_files table...")
	if err := dbManager.CreateFileRecordsTable(); err != nil {
		log.Fatalf("Error creating aba_files table: %v", err)
	}
	fmt.Println("aba_files table created successfully.")

	fmt.Println("Creating aba_detail_records table...")
	if err := dbManager.CreateDetailRecordsTable(); err != nil {
		log.Fatalf("Error creating aba_detail_records table: %v", err)
	}
	fmt.Println("aba_detail_records table created successfully.")

	fmt.Println("Database setup finished successfully.")
}

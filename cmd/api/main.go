package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/alt-ctrl-dev/aba-validator/internal/config"
	"github.com/alt-ctrl-dev/aba-validator/internal/database"
	"github.com/alt-ctrl-dev/aba-validator/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbpool, err := database.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer dbpool.Close()

	dbManager := database.NewPostgresDBManager(context.Background(), dbpool)
	router := server.SetupRoutes(server.NewValidationService(dbManager, cfg.MaxUploadBytes))

	log.Printf("Server starting on port %s", cfg.APIPort)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.APIPort), router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

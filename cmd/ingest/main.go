package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/alt-ctrl-dev/aba-validator/internal/config"
	"github.com/alt-ctrl-dev/aba-validator/internal/database"
	"github.com/alt-ctrl-dev/aba-validator/internal/ingestion"
	"github.com/alt-ctrl-dev/aba-validator/pkg/rabbitmq"
	"github.com/joho/godotenv"
)

func setup() (string, *ingestion.IngestionService, func(), error) {
	if len(os.Args) < 2 {
		return "", nil, nil, fmt.Errorf("please provide the folder path as a command-line argument")
	}
	filesPath := os.Args[1]

	cfg, err := config.New()
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbpool, err := database.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		return "", nil, nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	ctx := context.Background()
	dbManager := database.NewPostgresDBManager(ctx, dbpool)

	fileProcessor := ingestion.NewFileProcessor(dbManager, cfg.FileExtensions)
	asyncWorker := ingestion.NewAsyncWorker(dbManager, fileProcessor, ingestion.AsyncWorkerConfig{
		DBBatchSize:        cfg.DBBatchSize,
		ErrorsPerFileLimit: cfg.ErrorsPerFileLimit,
	})

	handler := ingestion.NewIngestionService(
		ingestion.Setup{ResultsChannelSize: cfg.ResultsChannelSize},
		asyncWorker,
		fileProcessor,
		*cfg,
	)

	var producer *rabbitmq.EventProducer
	if cfg.RabbitMQURL != "" {
		producer, err = rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			dbpool.Close()
			return "", nil, nil, fmt.Errorf("unable to connect to RabbitMQ: %w", err)
		}
		handler.WithPublisher(producer)
	}

	cleanupFunc := func() {
		if producer != nil {
			producer.Close()
		}
		dbpool.Close()
	}

	return filesPath, handler, cleanupFunc, nil
}

func execute(filesPath string, handler *ingestion.IngestionService) error {
	log.Println("Starting validation run...")
	runID, err := handler.Execute(context.Background(), filesPath)
	if runID != "" {
		log.Printf("Run id: %s", runID)
	}
	return err
}

func cleanup(cleanupFunc func()) {
	log.Println("Cleaning up resources...")
	cleanupFunc()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}
	startTime := time.Now()

	filesPath, handler, cleanupFunc, err := setup()
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup(cleanupFunc)

	err = execute(filesPath, handler)
	if err != nil {
		log.Printf("Error during validation run: %v\n", err)
		return
	}

	log.Println("Validation run finished.")
	log.Printf("Execution time: %s\n", time.Since(startTime))
}

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL        string
	NumParserWorkers   int
	ResultsChannelSize int
	DBBatchSize        int
	ErrorsPerFileLimit int
	FileExtensions     []string
	APIPort            string
	MaxUploadBytes     int64
	RabbitMQURL        string
	EventsExchange     string
}

// New loads the configuration from the environment. A .env file in the
// working directory is read when present; real environment variables win.
func New() (*Config, error) {
	return Load(".")
}

// Load is New with an explicit directory for the optional .env file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("NUM_PARSER_WORKERS", 7)
	v.SetDefault("RESULTS_CHANNEL_SIZE", 10000)
	v.SetDefault("DB_BATCH_SIZE", 5000)
	v.SetDefault("ERRORS_PER_FILE_LIMIT", 100)
	v.SetDefault("FILE_EXTENSIONS", ".aba")
	v.SetDefault("API_PORT", "8080")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("EVENTS_EXCHANGE", "aba.files")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read .env file: %w", err)
		}
	}

	databaseURL := v.GetString("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	cfg := &Config{
		DatabaseURL:    databaseURL,
		FileExtensions: splitList(v.GetString("FILE_EXTENSIONS")),
		APIPort:        v.GetString("API_PORT"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		EventsExchange: v.GetString("EVENTS_EXCHANGE"),
	}

	var err error
	cfg.NumParserWorkers, err = getAsInt(v, "NUM_PARSER_WORKERS")
	if err != nil {
		return nil, err
	}

	cfg.ResultsChannelSize, err = getAsInt(v, "RESULTS_CHANNEL_SIZE")
	if err != nil {
		return nil, err
	}

	cfg.DBBatchSize, err = getAsInt(v, "DB_BATCH_SIZE")
	if err != nil {
		return nil, err
	}

	cfg.ErrorsPerFileLimit, err = getAsInt(v, "ERRORS_PER_FILE_LIMIT")
	if err != nil {
		return nil, err
	}

	maxUpload, err := getAsInt(v, "MAX_UPLOAD_BYTES")
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	return cfg, nil
}

func getAsInt(v *viper.Viper, key string) (int, error) {
	valueStr := strings.TrimSpace(v.GetString(key))

	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid value for %s: expected a positive integer, got '%s'", key, valueStr)
	}

	return value, nil
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Store backends selectable via STORE_BACKEND.
const (
	BackendFirebase = "firebase"
	BackendKafka    = "kafka"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	WriteTimeout    time.Duration

	// UploadDir, when set, receives a copy of every uploaded file.
	UploadDir string

	StoreBackend string

	// Firebase Realtime Database configuration.
	FirebaseDatabaseURL     string
	FirebaseProjectID       string
	FirebaseCredentialsFile string
	FirebaseIncidentsPath   string

	KafkaBrokers []string
	KafkaTopic   string

	SQLitePath  string
	DatabaseURL string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	writeTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("WRITE_TIMEOUT", "10s"))
	if err != nil || writeTimeout <= 0 {
		return nil, errors.New("invalid WRITE_TIMEOUT")
	}

	cfg := &Config{
		HTTPAddr:        httpAddr(),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		WriteTimeout:    writeTimeout,
		UploadDir:       os.Getenv("UPLOAD_DIR"),
		StoreBackend:    sharedcfg.EnvOrDefault("STORE_BACKEND", BackendSQLite),

		FirebaseDatabaseURL:     os.Getenv("FIREBASE_DATABASE_URL"),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
		FirebaseIncidentsPath:   sharedcfg.EnvOrDefault("FIREBASE_INCIDENTS_PATH", "incidents"),

		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "incidents"),

		SQLitePath:  sharedcfg.EnvOrDefault("SQLITE_PATH", "data/incidents.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendFirebase:
		if c.FirebaseDatabaseURL == "" {
			return errors.New("FIREBASE_DATABASE_URL is required when STORE_BACKEND is firebase")
		}
		if c.FirebaseIncidentsPath == "" {
			return errors.New("FIREBASE_INCIDENTS_PATH must not be empty")
		}
	case BackendKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required when STORE_BACKEND is kafka")
		}
		if c.KafkaTopic == "" {
			return errors.New("KAFKA_TOPIC is required when STORE_BACKEND is kafka")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORE_BACKEND is sqlite")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_BACKEND is postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

// httpAddr prefers HTTP_ADDR, then PORT, then :3001.
func httpAddr() string {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		return v
	}
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":3001"
}

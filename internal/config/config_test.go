package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker   = "localhost:9092"
	testFirebaseURL = "https://incidents-test-default-rtdb.firebaseio.com"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.Empty(t, cfg.UploadDir)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "data/incidents.db", cfg.SQLitePath)
	assert.Equal(t, "incidents", cfg.FirebaseIncidentsPath)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "incidents", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("WRITE_TIMEOUT", "2s")
	t.Setenv("UPLOAD_DIR", "/var/lib/uploads")
	t.Setenv("STORE_BACKEND", BackendKafka)
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "field-incidents")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 2*time.Second, cfg.WriteTimeout)
	assert.Equal(t, "/var/lib/uploads", cfg.UploadDir)
	assert.Equal(t, BackendKafka, cfg.StoreBackend)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "field-incidents", cfg.KafkaTopic)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "8081")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.HTTPAddr)
}

func TestLoad_HTTPAddrBeatsPort(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidWriteTimeout(t *testing.T) {
	for _, v := range []string{"bad", "0s", "-1s"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("WRITE_TIMEOUT", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "WRITE_TIMEOUT")
		})
	}
}

func TestLoad_Firebase(t *testing.T) {
	t.Setenv("STORE_BACKEND", BackendFirebase)
	t.Setenv("FIREBASE_DATABASE_URL", testFirebaseURL)
	t.Setenv("FIREBASE_PROJECT_ID", "incidents-test")
	t.Setenv("FIREBASE_CREDENTIALS_FILE", "/etc/firebase/sa.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, testFirebaseURL, cfg.FirebaseDatabaseURL)
	assert.Equal(t, "incidents-test", cfg.FirebaseProjectID)
	assert.Equal(t, "/etc/firebase/sa.json", cfg.FirebaseCredentialsFile)
}

func TestLoad_FirebaseWithoutURL(t *testing.T) {
	t.Setenv("STORE_BACKEND", BackendFirebase)
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIREBASE_DATABASE_URL")
}

func TestLoad_PostgresWithoutURL(t *testing.T) {
	t.Setenv("STORE_BACKEND", BackendPostgres)
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Postgres(t *testing.T) {
	t.Setenv("STORE_BACKEND", BackendPostgres)
	t.Setenv("DATABASE_URL", "postgres://localhost/incidents?sslmode=disable")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/incidents?sslmode=disable", cfg.DatabaseURL)
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongodb")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}

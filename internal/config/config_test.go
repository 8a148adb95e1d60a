package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/torii/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:              ":8080",
		DBPath:            "test.db",
		LogLevel:          "INFO",
		AdvanceDelay:      time.Second,
		SessionTTL:        30 * time.Minute,
		ReapInterval:      time.Minute,
		ResultWorkerCount: 2,
		ResultQueueSize:   64,
		RemoteTimeout:     15 * time.Second,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = "  "

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_LogLevel(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{level: "DEBUG"},
		{level: "INFO"},
		{level: "WARN"},
		{level: "ERROR"},
		{level: "debug"},
		{level: "INVALID", wantErr: true},
		{level: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_AdvanceDelay(t *testing.T) {
	tests := []struct {
		name    string
		delay   time.Duration
		wantErr bool
	}{
		{name: "zero", delay: 0},
		{name: "typical", delay: 800 * time.Millisecond},
		{name: "upper bound", delay: time.Minute},
		{name: "negative", delay: -time.Second, wantErr: true},
		{name: "too long", delay: 2 * time.Minute, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.AdvanceDelay = tt.delay

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "ADVANCE_DELAY")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_WorkerSettings(t *testing.T) {
	tests := []struct {
		name          string
		workers       int
		queue         int
		expectedError string
	}{
		{name: "zero workers", workers: 0, queue: 64, expectedError: "RESULT_WORKER_COUNT"},
		{name: "negative workers", workers: -1, queue: 64, expectedError: "RESULT_WORKER_COUNT"},
		{name: "zero queue", workers: 2, queue: 0, expectedError: "RESULT_QUEUE_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.ResultWorkerCount = tt.workers
			cfg.ResultQueueSize = tt.queue

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_RemoteDecks(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{url: ""},
		{url: "https://decks.example.com/v1"},
		{url: "http://localhost:9000"},
		{url: "ftp://decks.example.com", wantErr: true},
		{url: "decks.example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			cfg := validConfig()
			cfg.RemoteDecksURL = tt.url

			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorContains(t, err, "REMOTE_DECKS_URL")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{LogLevel: "INVALID"}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "SESSION_TTL")
	assert.Contains(t, errStr, "REAP_INTERVAL")
	assert.Contains(t, errStr, "RESULT_WORKER_COUNT")
	assert.Contains(t, errStr, "RESULT_QUEUE_SIZE")
	assert.Contains(t, errStr, "REMOTE_TIMEOUT")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("ADVANCE_DELAY", "250ms")
	t.Setenv("RESULT_WORKER_COUNT", "4")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 250*time.Millisecond, cfg.AdvanceDelay)
	assert.Equal(t, 4, cfg.ResultWorkerCount)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("ADVANCE_DELAY", "soon")
	t.Setenv("RESULT_QUEUE_SIZE", "many")

	cfg := config.Load()

	assert.Equal(t, time.Second, cfg.AdvanceDelay)
	assert.Equal(t, 64, cfg.ResultQueueSize)
}

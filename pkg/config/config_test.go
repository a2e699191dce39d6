package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.YouTube.PageSize != 50 {
		t.Errorf("Expected default page size to be 50, got %d", config.YouTube.PageSize)
	}

	if config.YouTube.CategoryID != "20" {
		t.Errorf("Expected default category to be 20, got %s", config.YouTube.CategoryID)
	}

	if config.Batch.Timezone != "Asia/Tokyo" {
		t.Errorf("Expected default timezone to be Asia/Tokyo, got %s", config.Batch.Timezone)
	}

	if config.Batch.MaxSpan != (SpanConfig{Months: 6}) {
		t.Errorf("Expected default max span of 6 months, got %s", config.Batch.MaxSpan)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VIDEOBATCH_DATABASE_URL", "postgres://u:p@db:5432/videos")
	t.Setenv("VIDEOBATCH_TIMEZONE", "UTC")
	t.Setenv("VIDEOBATCH_MAX_SPAN_MONTHS", "12")
	t.Setenv("VIDEOBATCH_REQUESTS_PER_MINUTE", "30")
	t.Setenv("VIDEOBATCH_LOG_LEVEL", "debug")
	t.Setenv("VIDEOBATCH_CATEGORY_ID", "10")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Database.URL != "postgres://u:p@db:5432/videos" {
		t.Errorf("Expected database url from env, got %s", config.Database.URL)
	}
	if config.Batch.Timezone != "UTC" {
		t.Errorf("Expected timezone UTC, got %s", config.Batch.Timezone)
	}
	if config.Batch.MaxSpan != (SpanConfig{Months: 12}) {
		t.Errorf("Expected max span of 12 months, got %s", config.Batch.MaxSpan)
	}
	if config.RateLimit.RequestsPerMinute != 30 {
		t.Errorf("Expected requests per minute to be 30, got %d", config.RateLimit.RequestsPerMinute)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
	if config.YouTube.CategoryID != "10" {
		t.Errorf("Expected category 10, got %s", config.YouTube.CategoryID)
	}
}

func TestLoadFromEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("VIDEOBATCH_REQUESTS_PER_MINUTE", "lots")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err == nil {
		t.Error("Expected error for non-numeric requests per minute")
	}
}

func TestVideobatchDatabaseURLWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://platform/db")
	t.Setenv("VIDEOBATCH_DATABASE_URL", "postgres://explicit/db")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}
	if config.Database.URL != "postgres://explicit/db" {
		t.Errorf("Expected VIDEOBATCH_DATABASE_URL to take precedence, got %s", config.Database.URL)
	}
}

func TestLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "videobatch.yaml")

	content := `youtube:
  api_key: file-key
  page_size: 25
  request_timeout: 10s
database:
  url: postgres://file/db
  max_conns: 8
batch:
  epoch: "2020-01-01T00:00:00Z"
  max_span:
    years: 1
  timezone: UTC
logging:
  level: warn
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.YouTube.APIKey != "file-key" {
		t.Errorf("Expected api key from file, got %s", config.YouTube.APIKey)
	}
	if config.YouTube.PageSize != 25 {
		t.Errorf("Expected page size 25, got %d", config.YouTube.PageSize)
	}
	if config.YouTube.RequestTimeout != 10*time.Second {
		t.Errorf("Expected request timeout 10s, got %v", config.YouTube.RequestTimeout)
	}
	if config.Database.MaxConns != 8 {
		t.Errorf("Expected max conns 8, got %d", config.Database.MaxConns)
	}
	if config.Batch.MaxSpan != (SpanConfig{Years: 1}) {
		t.Errorf("Expected max span of 1 year, got %s", config.Batch.MaxSpan)
	}
	// Untouched fields keep their defaults
	if config.YouTube.CategoryID != "20" {
		t.Errorf("Expected default category to survive, got %s", config.YouTube.CategoryID)
	}

	epoch, err := config.Batch.EpochTime()
	if err != nil {
		t.Fatalf("Failed to parse epoch: %v", err)
	}
	if !epoch.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected epoch %v", epoch)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	config := DefaultConfig()
	if err := config.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"page size too large", func(c *Config) { c.YouTube.PageSize = 51 }, "page size"},
		{"zero timeout", func(c *Config) { c.YouTube.RequestTimeout = 0 }, "request timeout"},
		{"bad timezone", func(c *Config) { c.Batch.Timezone = "Mars/Olympus" }, "invalid timezone"},
		{"bad epoch", func(c *Config) { c.Batch.Epoch = "yesterday" }, "invalid epoch"},
		{"zero span", func(c *Config) { c.Batch.MaxSpan = SpanConfig{} }, "max span"},
		{"negative span", func(c *Config) { c.Batch.MaxSpan = SpanConfig{Months: -1} }, "max span"},
		{"empty database url", func(c *Config) { c.Database.URL = "" }, "database url"},
		{"min above max conns", func(c *Config) { c.Database.MinConns = 10 }, "min conns"},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }, "log level"},
		{"empty program id", func(c *Config) { c.Batch.ProgramID = "" }, "program id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)

			err := config.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	config := DefaultConfig()
	config.YouTube.PageSize = 0
	config.RateLimit.RequestsPerMinute = 0

	err := config.Validate()
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(err.Error(), "page size") || !strings.Contains(err.Error(), "requests per minute") {
		t.Errorf("Expected both problems reported, got %v", err)
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{
		"database-url":    "postgres://flag/db",
		"max-span-months": 12,
		"log-level":       "error",
		"timezone":        "",
	})

	if config.Database.URL != "postgres://flag/db" {
		t.Errorf("Expected database url from flags, got %s", config.Database.URL)
	}
	if config.Batch.MaxSpan != (SpanConfig{Months: 12}) {
		t.Errorf("Expected max span 12 months, got %s", config.Batch.MaxSpan)
	}
	if config.Logging.Level != "error" {
		t.Errorf("Expected log level error, got %s", config.Logging.Level)
	}
	if config.Batch.Timezone != "Asia/Tokyo" {
		t.Errorf("Empty flag should not override timezone, got %s", config.Batch.Timezone)
	}
}

func TestMasked(t *testing.T) {
	config := DefaultConfig()
	config.YouTube.APIKey = "AIzaSecret"
	config.Database.URL = "postgres://batch:hunter2@db:5432/videos"

	masked := config.Masked()

	if strings.Contains(masked.YouTube.APIKey, "Secret") {
		t.Errorf("API key should be masked, got %s", masked.YouTube.APIKey)
	}
	if strings.Contains(masked.Database.URL, "hunter2") {
		t.Errorf("Database password should be masked, got %s", masked.Database.URL)
	}
	if config.YouTube.APIKey != "AIzaSecret" {
		t.Error("Masked must not modify the original config")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	config := DefaultConfig()
	config.Batch.MaxSpan = SpanConfig{Years: 1}
	if err := config.Save(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	reloaded := DefaultConfig()
	if err := reloaded.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if reloaded.Batch.MaxSpan != (SpanConfig{Years: 1}) {
		t.Errorf("Expected saved span to round trip, got %s", reloaded.Batch.MaxSpan)
	}
}

func TestLoadFromFileReplacesWholeSpan(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    SpanConfig
	}{
		{"years only", "batch:\n  max_span:\n    years: 1\n", SpanConfig{Years: 1}},
		{"days only", "batch:\n  max_span:\n    days: 10\n", SpanConfig{Days: 10}},
		{"span omitted", "batch:\n  timezone: UTC\n", SpanConfig{Months: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "videobatch.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}

			config := DefaultConfig()
			if err := config.LoadFromFile(path); err != nil {
				t.Fatalf("LoadFromFile failed: %v", err)
			}
			if config.Batch.MaxSpan != tt.want {
				t.Errorf("max span = %s, want %s", config.Batch.MaxSpan, tt.want)
			}
		})
	}
}

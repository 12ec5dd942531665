package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(20<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "reports", cfg.Storage.Bucket)
	assert.Equal(t, "valuation.xls", cfg.Storage.ValuationFile)
	assert.Equal(t, "trs.xlsx", cfg.Storage.TrsFile)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	require.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid default",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "negative read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = -time.Second },
			wantErr: "read timeout",
		},
		{
			name:    "zero upload limit",
			mutate:  func(c *Config) { c.Server.MaxUploadBytes = 0 },
			wantErr: "upload bytes",
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
		{
			name:    "empty bucket",
			mutate:  func(c *Config) { c.Storage.Bucket = "" },
			wantErr: "storage bucket",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
storage:
  bucket: fund-reports
  prefix: daily
gemini:
  model: gemini-2.5-pro
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := loadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "fund-reports", cfg.Storage.Bucket)
	assert.Equal(t, "daily", cfg.Storage.Prefix)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FUNDPULSE_SERVER_PORT", "9191")
	t.Setenv("FUNDPULSE_STORAGE_BUCKET", "env-bucket")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "env-bucket", cfg.Storage.Bucket)
}

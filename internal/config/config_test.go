package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults when file is missing", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:3000", cfg.Backend.BaseURL)
		assert.Equal(t, "127.0.0.1:8080", cfg.GetServerAddress())
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
		assert.NotEmpty(t, cfg.Session.Path)
	})

	t.Run("YAML values", func(t *testing.T) {
		path := writeConfig(t, `
backend:
  base_url: https://api.example.com/
server:
  host: 0.0.0.0
  port: 9000
session:
  path: /tmp/session.json
log:
  level: debug
  format: json
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
		assert.Equal(t, "0.0.0.0:9000", cfg.GetServerAddress())
		assert.Equal(t, "/tmp/session.json", cfg.Session.Path)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("BACKEND_URL", "http://backend:4000")
		t.Setenv("SERVER_PORT", "8181")
		t.Setenv("SESSION_PATH", "/var/lib/carrental/session.json")
		t.Setenv("LOG_LEVEL", "warn")

		path := writeConfig(t, "backend:\n  base_url: http://ignored:1\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://backend:4000", cfg.Backend.BaseURL)
		assert.Equal(t, 8181, cfg.Server.Port)
		assert.Equal(t, "/var/lib/carrental/session.json", cfg.Session.Path)
		assert.Equal(t, "warn", cfg.Log.Level)
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		path := writeConfig(t, "backend: [unterminated")
		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("Invalid backend URL", func(t *testing.T) {
		path := writeConfig(t, "backend:\n  base_url: ftp://files\n")
		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Backend: BackendConfig{BaseURL: "http://localhost:3000"},
		Server:  ServerConfig{Host: "127.0.0.1", Port: 70000},
		Session: SessionConfig{Path: "s.json"},
	}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")

	cfg.Server.Port = 8080
	assert.NoError(t, cfg.Validate())

	cfg.Session.Path = ""
	assert.Error(t, cfg.Validate())
}

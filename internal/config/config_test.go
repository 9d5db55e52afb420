package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Debashish2005/Shopzi/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoadByPath(t *testing.T) {
	os.Setenv("DB_PASSWORD", "secret")
	os.Setenv("JWT_SECRET", "testsecret")
	defer os.Unsetenv("DB_PASSWORD")
	defer os.Unsetenv("JWT_SECRET")

	content := `
env: "local"
http_server:
  address: "localhost:8081"
  timeout: 5s
  idle_timeout: 90s
database:
  host: "db.internal"
  port: 5433
  user: "shopzi"
  name: "shopzi"
jwt:
  token_ttl: 60
frontend:
  url: "https://shop.example.com"
migrations:
  path: "./migrations"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := config.MustLoadByPath(path)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "localhost:8081", cfg.HTTPServer.Address)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, 90*time.Second, cfg.HTTPServer.IdleTimeout)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "secret", cfg.Database.Password, "Password comes from the environment, not the file")
	assert.Equal(t, "testsecret", cfg.JWT.Secret)
	assert.Equal(t, 60, cfg.JWT.TokenTTL)
	assert.Equal(t, "https://shop.example.com", cfg.Frontend.URL)
}

func TestMustLoadByPath_Defaults(t *testing.T) {
	os.Setenv("DB_PASSWORD", "secret")
	os.Setenv("JWT_SECRET", "testsecret")
	defer os.Unsetenv("DB_PASSWORD")
	defer os.Unsetenv("JWT_SECRET")

	content := `
database:
  user: "shopzi"
  name: "shopzi"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := config.MustLoadByPath(path)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "localhost:8080", cfg.HTTPServer.Address)
	assert.Equal(t, 1440, cfg.JWT.TokenTTL)
	assert.Equal(t, "http://localhost:5173", cfg.Frontend.URL)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestMustLoadByPath_MissingFile(t *testing.T) {
	assert.Panics(t, func() {
		config.MustLoadByPath(filepath.Join(t.TempDir(), "nope.yaml"))
	})
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("BACKEND_URL", "")
	t.Setenv("SESSION_STORE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:5000/api", cfg.Backend.BaseURL)
	assert.Equal(t, StoreMemory, cfg.Session.Store)
	assert.Equal(t, 8*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 10, cfg.List.PageLimit)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("BACKEND_URL", "https://api.example.com/api/")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("PAGE_LIMIT", "25")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/api", cfg.Backend.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 25, cfg.List.PageLimit)
	assert.True(t, cfg.Session.CookieSecure)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PORT: \"9090\"\nSESSION_STORE: sqlite\nSQLITE_PATH: /tmp/s.db\nLOG_LEVEL: debug\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("BACKEND_URL", "")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, StoreSQLite, cfg.Session.Store)
	assert.Equal(t, "/tmp/s.db", cfg.Session.SQLitePath)
	assert.Equal(t, "warn", cfg.Log.Level, "environment wins over the file")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Backend: BackendConfig{BaseURL: "http://localhost:5000/api"},
			Session: SessionConfig{Store: StoreMemory},
			List:    ListConfig{PageLimit: 10},
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Backend.BaseURL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Session.Store = "redis"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Session.Store = StorePostgres
	assert.Error(t, cfg.Validate(), "postgres store needs DB_HOST")

	cfg.Database = DatabaseConfig{Host: "db", Name: "cci"}
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.List.PageLimit = 0
	assert.Error(t, cfg.Validate())
}

func TestGetDSN(t *testing.T) {
	db := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable", db.GetDSN())
}

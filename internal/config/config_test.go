package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"REGISTRY_DB_DRIVER", "REGISTRY_DB", "REGISTRY_ADDR", "REGISTRY_EVENT_STREAM", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(k, "") // restores the original value on cleanup
		os.Unsetenv(k)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, DefaultDBPath(), cfg.DBPath)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "person:events", cfg.EventStream)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("REGISTRY_DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://user:pw@localhost:5432/registry")
	t.Setenv("REGISTRY_ADDR", ":8080")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&Config{DBDriver: DriverPostgres}).Validate())
	assert.Error(t, (&Config{DBDriver: "mysql"}).Validate())
	assert.NoError(t, (&Config{DBDriver: DriverMemory}).Validate())
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestParseDefersValidation(t *testing.T) {
	t.Setenv("REGISTRY_DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)

	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigOverridesBeforeValidation(t *testing.T) {
	t.Setenv("REGISTRY_DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadConfig(func(c *Config) { c.DBDriver = DriverMemory })
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DBDriver)

	_, err = LoadConfig(func(c *Config) { c.DBDriver = "mysql" })
	assert.Error(t, err)
}

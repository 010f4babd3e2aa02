package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Database.Enabled)
	assert.True(t, cfg.Security.EnableRateLimit)
	assert.Equal(t, 600, cfg.Security.RateLimitPerMinute)
	assert.Equal(t, 5*time.Minute, cfg.Models.CacheTTL)
	assert.Empty(t, cfg.Models.DDLPaths)
	assert.False(t, cfg.Models.Strict)
	assert.False(t, cfg.Security.EnableAuth)
	assert.Equal(t, "admin", cfg.Security.AdminRole)
	assert.Equal(t, 24*time.Hour, cfg.Security.TokenDuration)
}

func TestLoadAuthRequiresSecret(t *testing.T) {
	t.Setenv("SCHEMA_FORGE_SECURITY_ENABLE_AUTH", "true")
	_, err := LoadFrom(viper.New(), t.TempDir())
	assert.Error(t, err)

	t.Setenv("SCHEMA_FORGE_SECURITY_JWT_SECRET", "s3cret")
	cfg, err := LoadFrom(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.Security.EnableAuth)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: "9090"
database:
  enabled: true
  host: db.internal
  params:
    timeout: 5s
models:
  ddl_paths:
    - ./schema/users.sql
  tables: ["orders"]
  cache_ttl: 30s
  strict: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("SCHEMA_FORGE_SECURITY_RATE_LIMIT_BURST", "7")

	cfg, err := LoadFrom(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, []string{"./schema/users.sql"}, cfg.Models.DDLPaths)
	assert.Equal(t, []string{"orders"}, cfg.Models.Tables)
	assert.Equal(t, 30*time.Second, cfg.Models.CacheTTL)
	assert.True(t, cfg.Models.Strict)
	assert.Equal(t, 7, cfg.Security.RateLimitBurst)
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o600))

	_, err := LoadFrom(viper.New(), dir)
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     "3306",
		Database: "shop",
		Username: "app",
		Password: "p@ss:word",
		Params:   map[string]string{"timeout": "5s"},
	}

	dsn := d.DSN()
	assert.True(t, strings.HasPrefix(dsn, "app:p@ss:word@tcp(localhost:3306)/shop?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	parsed, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "app", parsed.User)
	assert.Equal(t, "p@ss:word", parsed.Passwd)
	assert.Equal(t, "shop", parsed.DBName)
	assert.Equal(t, 5*time.Second, parsed.Timeout)
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Security SecurityConfig `mapstructure:"security"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Models   ModelsConfig   `mapstructure:"models"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	Host string `mapstructure:"host"`
}

type DatabaseConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Host     string            `mapstructure:"host"`
	Port     string            `mapstructure:"port"`
	Database string            `mapstructure:"database"`
	Username string            `mapstructure:"username"`
	Password string            `mapstructure:"password"`
	Params   map[string]string `mapstructure:"params"`
}

type SecurityConfig struct {
	RateLimitPerMinute int  `mapstructure:"rate_limit_per_minute"`
	RateLimitBurst     int  `mapstructure:"rate_limit_burst"`
	EnableRateLimit    bool `mapstructure:"enable_rate_limit"`
	// EnableAuth requires an HS256 bearer token on the API
	EnableAuth    bool          `mapstructure:"enable_auth"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenDuration time.Duration `mapstructure:"token_duration"`
	AdminRole     string        `mapstructure:"admin_role"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ModelsConfig lists where model metadata is loaded from
type ModelsConfig struct {
	DDLPaths []string      `mapstructure:"ddl_paths"`
	Tables   []string      `mapstructure:"tables"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// Strict rejects unknown keys in validated payloads
	Strict bool `mapstructure:"strict"`
}

func Load() (*Config, error) {
	return LoadFrom(viper.New(), "./configs", ".")
}

// LoadFrom reads config.yaml from the given paths into v
func LoadFrom(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.SetEnvPrefix("SCHEMA_FORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults and environment variables")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if config.Security.EnableAuth && config.Security.JWTSecret == "" {
		return nil, fmt.Errorf("security.jwt_secret is required when security.enable_auth is set")
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.host", "0.0.0.0")

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.database", "schema_forge")
	v.SetDefault("database.username", "schema_forge")

	// Security defaults
	v.SetDefault("security.rate_limit_per_minute", 600)
	v.SetDefault("security.rate_limit_burst", 50)
	v.SetDefault("security.enable_rate_limit", true)
	v.SetDefault("security.enable_auth", false)
	v.SetDefault("security.jwt_secret", "")
	v.SetDefault("security.token_duration", "24h")
	v.SetDefault("security.admin_role", "admin")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Model defaults
	v.SetDefault("models.ddl_paths", []string{})
	v.SetDefault("models.tables", []string{})
	v.SetDefault("models.cache_ttl", "5m")
	v.SetDefault("models.strict", false)
}

package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Port         int
		BaseURL      string
		AllowOrigins []string
		LogLevel     string
	}

	DatabaseConfig struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
		SSLMode  string
	}

	JWTConfig struct {
		Secret string
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	Config struct {
		Server   ServerConfig
		Database DatabaseConfig
		JWT      JWTConfig
		Redis    RedisConfig
	}
)

var instance *Config

// Load reads configuration from the environment (an optional .env file is
// honored for local development) and caches it for Get/GetSafe.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 3000)
	v.SetDefault("SERVER_BASE_URL", "http://localhost:3000")
	v.SetDefault("SERVER_ALLOW_ORIGINS", []string{"*"})
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "slotswap")
	v.SetDefault("DB_SSL_MODE", "disable")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	if !v.IsSet("JWT_SECRET") || v.GetString("JWT_SECRET") == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	instance = &Config{
		Server: ServerConfig{
			Port:         v.GetInt("SERVER_PORT"),
			BaseURL:      v.GetString("SERVER_BASE_URL"),
			AllowOrigins: v.GetStringSlice("SERVER_ALLOW_ORIGINS"),
			LogLevel:     v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
	}

	return instance, nil
}

// GetSafe returns the loaded configuration, reporting false when Load has
// not run yet.
func GetSafe() (*Config, bool) {
	if instance == nil {
		return nil, false
	}
	return instance, true
}

// SetForTesting replaces the cached configuration. Test helper only.
func SetForTesting(cfg *Config) {
	instance = cfg
}

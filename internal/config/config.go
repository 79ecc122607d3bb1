package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App  AppConfig
	Data DataConfig
	JWT  JWTConfig
	CORS CORSConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// DataConfig locates the data sources and the settings file
type DataConfig struct {
	MasterFile   string
	ExampleFile  string
	Sheet        string
	SettingsFile string
	UploadDir    string
	MaxUploadMB  int

	// RefreshInterval polls the active source for changes; zero disables it
	RefreshInterval time.Duration
}

// JWTConfig holds JWT configuration. An empty secret leaves mutating routes open.
type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	Origins []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Data configuration
	maxUpload, err := getEnvAsInt("MAX_UPLOAD_MB", 25)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}

	refresh, err := time.ParseDuration(getEnv("DATA_REFRESH_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DATA_REFRESH_INTERVAL: %w", err)
	}

	config.Data = DataConfig{
		MasterFile:      getEnv("DATA_MASTER_FILE", "data/base_maestra.xlsx"),
		ExampleFile:     getEnv("DATA_EXAMPLE_FILE", "data/ejemplo.csv"),
		Sheet:           getEnv("DATA_SHEET", "BBDD"),
		SettingsFile:    getEnv("SETTINGS_FILE", "data/settings.yaml"),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadMB:     maxUpload,
		RefreshInterval: refresh,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	config.CORS = CORSConfig{
		Origins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535")
	}
	if c.Data.MasterFile == "" {
		return fmt.Errorf("DATA_MASTER_FILE is required")
	}
	if c.Data.SettingsFile == "" {
		return fmt.Errorf("SETTINGS_FILE is required")
	}
	if c.Data.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// AuthEnabled reports whether mutating routes require a bearer token
func (c *Config) AuthEnabled() bool {
	return c.JWT.Secret != ""
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

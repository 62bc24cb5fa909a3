package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - конфигурация сервера Incident API
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// Login Config
	AdminUsername  string        `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword  string        `env:"ADMIN_PASSWORD" envDefault:"admin"`
	LoginRateLimit int           `env:"LOGIN_RATE_LIMIT" envDefault:"5"`
	LoginWindow    time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`

	// Incident Config
	IncidentCacheTTL time.Duration `env:"INCIDENT_CACHE_TTL" envDefault:"2s"`
	DefaultLat       float64       `env:"DEFAULT_LAT" envDefault:"-23.5505"`
	DefaultLon       float64       `env:"DEFAULT_LON" envDefault:"-46.6333"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// DashboardConfig - конфигурация консоли оператора
type DashboardConfig struct {
	APIBaseURL     string        `env:"API_BASE_URL"`
	APIKey         string        `env:"API_KEY"`
	HTTPPort       string        `env:"DASHBOARD_PORT" envDefault:"8090"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"`
	PollInterval   time.Duration `env:"POLL_INTERVAL" envDefault:"3s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	// Map Config
	MapCenterLat float64 `env:"MAP_CENTER_LAT" envDefault:"-23.5505"`
	MapCenterLon float64 `env:"MAP_CENTER_LON" envDefault:"-46.6333"`
	MapScale     float64 `env:"MAP_SCALE" envDefault:"2000"`

	FleetFile    string        `env:"FLEET_FILE"`
	SimVehicleID string        `env:"SIM_VEHICLE_ID" envDefault:"V-99 (Sim)"`
	OperatorName string        `env:"OPERATOR_NAME" envDefault:"Op. COE"`
	NotifyTTL    time.Duration `env:"NOTIFY_TTL" envDefault:"3s"`
	SessionKey   string        `env:"SESSION_KEY" envDefault:"coe_user"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Gemini Config
	GeminiProject  string `env:"GEMINI_PROJECT"`
	GeminiLocation string `env:"GEMINI_LOCATION" envDefault:"us-central1"`
}

// loadDotEnv загружает переменные окружения из .env файла, если он есть
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}
	return nil
}

// LoadConfig загружает конфигурацию сервера из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		WebhookURL:        os.Getenv("WEBHOOK_URL"),
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:    getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries: getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:  getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "admin"),
		LoginRateLimit:    getEnvAsInt("LOGIN_RATE_LIMIT", 5),
		LoginWindow:       getEnvAsDuration("LOGIN_RATE_WINDOW", time.Minute),
		IncidentCacheTTL:  getEnvAsDuration("INCIDENT_CACHE_TTL", 2*time.Second),
		DefaultLat:        getEnvAsFloat("DEFAULT_LAT", -23.5505),
		DefaultLon:        getEnvAsFloat("DEFAULT_LON", -46.6333),
		APIKeys:           getEnvAsList("API_KEYS"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

// LoadDashboardConfig загружает конфигурацию консоли оператора
func LoadDashboardConfig() (*DashboardConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &DashboardConfig{
		APIBaseURL:     strings.TrimRight(os.Getenv("API_BASE_URL"), "/"),
		APIKey:         os.Getenv("API_KEY"),
		HTTPPort:       getEnv("DASHBOARD_PORT", "8090"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		PollInterval:   getEnvAsDuration("POLL_INTERVAL", 3*time.Second),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
		MapCenterLat:   getEnvAsFloat("MAP_CENTER_LAT", -23.5505),
		MapCenterLon:   getEnvAsFloat("MAP_CENTER_LON", -46.6333),
		MapScale:       getEnvAsFloat("MAP_SCALE", 2000),
		FleetFile:      os.Getenv("FLEET_FILE"),
		SimVehicleID:   getEnv("SIM_VEHICLE_ID", "V-99 (Sim)"),
		OperatorName:   getEnv("OPERATOR_NAME", "Op. COE"),
		NotifyTTL:      getEnvAsDuration("NOTIFY_TTL", 3*time.Second),
		SessionKey:     getEnv("SESSION_KEY", "coe_user"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		GeminiProject:  os.Getenv("GEMINI_PROJECT"),
		GeminiLocation: getEnv("GEMINI_LOCATION", "us-central1"),
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL environment variable is required")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat возвращает значение переменной окружения как float64 или значение по умолчанию
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

// getEnvAsList разбирает список значений, разделенных запятыми
func getEnvAsList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort      string
	DBDriver        string
	DatabaseURL     string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	ProfileCacheTTL time.Duration
	EventsChannel   string
	JWTSecret       string
	GeminiAPIKey    string
	GeminiModel     string
	GeminiBaseURL   string
	SummaryMaxInput int
	LogLevel        string
	LogDevelopment  bool
	SwaggerHost     string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		DBDriver:        getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:     getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=inkpost port=5432 sslmode=disable"),
		MySQLDSN:        getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/inkpost?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		ProfileCacheTTL: getEnvDuration("PROFILE_CACHE_TTL", 5*time.Minute),
		EventsChannel:   getEnv("EVENTS_CHANNEL", "inkpost:events"),
		JWTSecret:       getEnv("JWT_SECRET", "change-me"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL:   os.Getenv("GEMINI_BASE_URL"),
		SummaryMaxInput: getEnvInt("SUMMARY_MAX_INPUT", 8000),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogDevelopment:  getEnvBool("LOG_DEVELOPMENT", false),
		SwaggerHost:     os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

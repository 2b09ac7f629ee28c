// Env loader
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv     string
	Port       string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSchema   string
	JWTSecret  string
	LogLevel   string

	QuranAPIURL     string
	QuranAPITimeout time.Duration
	Reciter         string

	RedisAddr         string
	RedisUsername     string
	RedisPassword     string
	CacheTTL          time.Duration
	CacheWarmSchedule string

	PlayerCommand    string
	LocalStoragePath string
}

// LoadConfig loads environment variables from the .env file
func LoadConfig() *Config {

	appEnv := os.Getenv("APP_ENV")

	switch appEnv {
	case "production":
		if err := godotenv.Load(".env.production"); err == nil {
			log.Info().Msg("Loaded .env.production")
		}
	default:
		if err := godotenv.Load(".env.development"); err == nil {
			log.Info().Msg("Loaded .env.development")
		}
	}

	cfg := &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		Port:       getEnv("PORT", "8080"),
		DBHost:     getEnv("BLUEPRINT_DB_HOST", "localhost"),
		DBPort:     getEnv("BLUEPRINT_DB_PORT", "5432"),
		DBName:     getEnv("BLUEPRINT_DB_DATABASE", "quran_reader"),
		DBUser:     getEnv("BLUEPRINT_DB_USERNAME", "postgres"),
		DBPassword: getEnv("BLUEPRINT_DB_PASSWORD", ""),
		DBSchema:   getEnv("BLUEPRINT_DB_SCHEMA", "public"),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		QuranAPIURL:     getEnv("QURAN_API_URL", "https://equran.id/api/v2"),
		QuranAPITimeout: getDuration("QURAN_API_TIMEOUT", 10*time.Second),
		Reciter:         getEnv("QURAN_RECITER", "01"),

		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisUsername:     getEnv("REDIS_USERNAME", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		CacheTTL:          getDuration("CACHE_TTL", 24*time.Hour),
		CacheWarmSchedule: getEnv("CACHE_WARM_SCHEDULE", "0 3 * * *"),

		PlayerCommand:    getEnv("PLAYER_COMMAND", "mpv --no-video --really-quiet"),
		LocalStoragePath: getEnv("LOCAL_STORAGE_PATH", defaultLocalStoragePath()),
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getDuration accepts Go duration strings ("30s") or a bare number of seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Warn().Str("key", key).Str("value", value).Msg("invalid duration, using default")
	return defaultValue
}

func defaultLocalStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "quran-reader.db"
	}
	return filepath.Join(dir, "quran-reader", "storage.db")
}

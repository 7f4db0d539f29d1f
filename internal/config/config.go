package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all environment driven settings for the server.
type Config struct {
	Port         string
	MongoURI     string
	MongoDB      string
	JWTSecret    string
	TokenExpiry  time.Duration
	StoreTimeout time.Duration
}

// LoadConfig reads configuration from a .env file, falling back to the
// process environment when the file is absent.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "hydration_tracker"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		TokenExpiry:  time.Duration(getEnvInt("TOKEN_EXPIRY_HOURS", 72)) * time.Hour,
		StoreTimeout: time.Duration(getEnvInt("STORE_TIMEOUT_SECONDS", 5)) * time.Second,
	}

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithField("key", key).Warnf("Invalid integer %q, using default %d", value, fallback)
		return fallback
	}
	return n
}

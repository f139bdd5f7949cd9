package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	AllowedOrigins      []string
	CreateRatePerMinute int
	Prod                bool
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:                getEnv("ADDR", ":8080"),
		AllowedOrigins:      strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ","),
		CreateRatePerMinute: getEnvInt("CREATE_RATE_PER_MINUTE", 30),
		Prod:                getEnvBool("PROD", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

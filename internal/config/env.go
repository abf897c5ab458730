package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

const defaultTimeoutMs = 10_000

var dotEnvOnce sync.Once

// loadDotEnv reads a .env file from the working directory if present.
// Variables already set in the environment win.
func loadDotEnv() {
	dotEnvOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Error loading .env file: %v", err)
		}
	})
}

func GetInt(key string, defaultValue int) int {
	loadDotEnv()

	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func GetString(key, defaultValue string) string {
	loadDotEnv()

	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

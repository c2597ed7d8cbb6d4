package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Init loads environment variables from .env when one is present. Missing
// files are fine: deployment environments set real env vars instead.
func Init() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, using process environment")
		return
	}
	log.Println("loaded environment variables from .env")
}

// Get returns the named environment variable or an error when unset.
func Get(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}
	return b, nil
}

// GetDefault returns the named environment variable, or def when unset.
func GetDefault(v, def string) string {
	if b := os.Getenv(v); b != "" {
		return b
	}
	return def
}

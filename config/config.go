package config

import (
	"log"
	"sync"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// LoadEnv loads variables from a local .env file if one exists.
// Safe to call from multiple init() functions.
func LoadEnv() {
	loadOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	})
}

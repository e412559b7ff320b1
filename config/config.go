package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv pulls a local .env into the process environment. A missing file
// is not an error: deployments set real environment variables instead.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("config: .env not loaded: %v", err)
		}
	}
}

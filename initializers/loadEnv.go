package initializers

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file when one is present. Real environment variables win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using process environment.")
	}
}

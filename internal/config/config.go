// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the settings required to talk to the GitHub API.
// It is loaded once at startup and read-only thereafter.
type Config struct {
	Token string
	Org   string
}

// Load builds the configuration from GITHUB_TOKEN and GITHUB_ORG, after a
// best-effort load of a local .env file. Real environment variables take
// precedence over .env values; both settings are required.
func Load() (Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return Config{}, fmt.Errorf("GitHub token not found: set the GITHUB_TOKEN environment variable or add it to .env")
	}
	org := os.Getenv("GITHUB_ORG")
	if org == "" {
		return Config{}, fmt.Errorf("GitHub organization not found: set the GITHUB_ORG environment variable or add it to .env")
	}
	return Config{Token: token, Org: org}, nil
}

package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const defaultAPIURL = "http://localhost:8000"

type Config struct {
	// APIBaseURL is the backend root, without the /api prefix.
	APIBaseURL string
	// DataDir holds client-local state (the session database).
	DataDir string
}

// Load reads .env if present, then applies environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		// Not an error: env vars and defaults still apply.
		log.Println("no .env file found, using environment and defaults")
	}

	cfg := Config{
		APIBaseURL: defaultAPIURL,
		DataDir:    defaultDataDir(),
	}
	if v := os.Getenv("SNAPFEED_API_URL"); v != "" {
		cfg.APIBaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("SNAPFEED_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	return cfg
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".snapfeed"
	}
	return filepath.Join(home, ".snapfeed")
}

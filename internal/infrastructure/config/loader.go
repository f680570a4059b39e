package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string
	WSAddr      string
	DownloadDir string
}

const defaultAPIBaseURL = "http://localhost:8000/api"

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:  getEnv("VOZ_API_BASE_URL", defaultAPIBaseURL),
		WSAddr:      getEnv("VOZ_WS_ADDR", ":8080"),
		DownloadDir: getEnv("VOZ_DOWNLOAD_DIR", "."),
	}

	if os.Getenv("VOZ_API_BASE_URL") == "" {
		log.Printf("VOZ_API_BASE_URL no configurado, usando %s", defaultAPIBaseURL)
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

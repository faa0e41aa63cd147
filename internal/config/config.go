package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig is built once at process start and passed into the wiring.
// Every provider secret is optional: an empty value silently disables that
// one collaborator, it never fails a request.
type AppConfig struct {
	// Optional provider secrets.
	AviationStackAPIKey string
	FlightLabsAPIKey    string
	SerpAPIKey          string
	AnthropicAPIKey     string
	GeocoderAPIKey      string

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration

	// ProbeInterval controls how often the health monitor checks provider
	// reachability.
	ProbeInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.AviationStackAPIKey = os.Getenv("AVIATIONSTACK_API_KEY")
	cfg.FlightLabsAPIKey = os.Getenv("FLIGHTLABS_API_KEY")
	cfg.SerpAPIKey = os.Getenv("SERPAPI_API_KEY")
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	probeStr := getenvDefault("PROBE_INTERVAL", "15m")
	probe, err := time.ParseDuration(probeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PROBE_INTERVAL: %w", err)
	}
	cfg.ProbeInterval = probe

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

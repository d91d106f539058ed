// Package config loads pipeline configuration from the environment, with an
// optional .env file for local use.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	defaultRedirectURL    = "http://localhost:8080/callback"
	defaultReccoBeatsURL  = "https://api.reccobeats.com"
	defaultRequestDelayMs = 500
)

// Config carries everything the commands need to construct adapters.
type Config struct {
	ClientID       string
	ClientSecret   string
	RedirectURL    string
	ReccoBeatsURL  string
	DataDir        string
	RequestDelayMs int
}

// Load reads configuration from the environment. When envFile is non-empty
// it is loaded first; a missing default .env is not an error. Credentials
// are only validated by RequireSpotify, since the analysis stages run
// without them.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, err
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := Config{
		ClientID:       os.Getenv("SPOTIFY_ID"),
		ClientSecret:   os.Getenv("SPOTIFY_SECRET"),
		RedirectURL:    envOr("SPOTIFY_REDIRECT_URL", defaultRedirectURL),
		ReccoBeatsURL:  envOr("RECCOBEATS_URL", defaultReccoBeatsURL),
		DataDir:        envOr("ORGANIZER_DATA_DIR", filepath.Join(xdg.DataHome, "spotify-track-organizer")),
		RequestDelayMs: defaultRequestDelayMs,
	}

	return cfg, nil
}

// RequireSpotify fails when the streaming-service credentials are missing.
func (c Config) RequireSpotify() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return errors.New("config: SPOTIFY_ID and SPOTIFY_SECRET environment variables are required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

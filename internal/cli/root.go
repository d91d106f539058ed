// Package cli wires the pipeline stages to subcommands.
package cli

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/netosnos/spotify-track-organizer/internal/adapters/jsonfile"
	"github.com/netosnos/spotify-track-organizer/internal/adapters/reccobeats"
	"github.com/netosnos/spotify-track-organizer/internal/adapters/spotify"
	"github.com/netosnos/spotify-track-organizer/internal/adapters/sqlite"
	"github.com/netosnos/spotify-track-organizer/internal/config"
	"github.com/netosnos/spotify-track-organizer/internal/core/services"
)

var (
	flagDataDir string
	flagEnvFile string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "organizer",
	Short: "Organize a Spotify library into mood playlists",
	Long: `organizer fetches your saved tracks, enriches them with audio
features from ReccoBeats, classifies each track into a mood/activity
bucket, and creates one private playlist per bucket.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logrus.SetLevel(logrus.InfoLevel)
		if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory for the local track database and snapshots")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "env file with credentials (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagEnvFile)
	if err != nil {
		return config.Config{}, err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	return cfg, nil
}

// environment bundles the adapters a command needs. Spotify is connected
// lazily since the local stages run without credentials.
type environment struct {
	store     *sqlite.Adapter
	organizer *services.Organizer
}

func newEnvironment(cmd *cobra.Command, withSpotify bool) (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	store, err := sqlite.NewAdapter(filepath.Join(cfg.DataDir, "library.db"))
	if err != nil {
		return nil, err
	}

	requestDelay := time.Duration(cfg.RequestDelayMs) * time.Millisecond
	deps := services.Deps{
		Analysis:     reccobeats.NewClient(&http.Client{Timeout: 30 * time.Second}, cfg.ReccoBeatsURL, requestDelay),
		Store:        store,
		Snapshots:    jsonfile.NewStore(cfg.DataDir),
		Out:          cmd.OutOrStdout(),
		RequestDelay: requestDelay,
	}

	if withSpotify {
		if err := cfg.RequireSpotify(); err != nil {
			store.Close()
			return nil, err
		}
		client, err := spotify.Authenticate(cmd.Context(), spotify.Credentials{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			TokenPath:    filepath.Join(cfg.DataDir, "token.json"),
		})
		if err != nil {
			store.Close()
			return nil, err
		}
		deps.Library = client
		deps.Playlists = client
	}

	return &environment{
		store:     store,
		organizer: services.NewOrganizer(deps),
	}, nil
}

func (e *environment) close() {
	if err := e.store.Close(); err != nil {
		logrus.Warnf("failed to close store: %v", err)
	}
}

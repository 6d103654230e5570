package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/tap-bingads/internal/catalog"
	"github.com/dbsmedya/tap-bingads/internal/config"
	"github.com/dbsmedya/tap-bingads/internal/discover"
	"github.com/dbsmedya/tap-bingads/internal/logger"
	"github.com/dbsmedya/tap-bingads/internal/sync"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags
var (
	cfgFile      string
	statePath    string
	catalogPath  string
	discoverMode bool
	logLevel     string
	logFormat    string
)

var rootCmd = &cobra.Command{
	Use:   "tap-bingads",
	Short: "Singer tap for the Bing Ads SOAP API",
	Long: `A Singer tap that extracts the Bing Ads account hierarchy
(accounts, campaigns, ad groups, ads) and emits it as a schema-validated
record stream on stdout.

Modes:
  --discover          introspect the remote services' WSDL type metadata and
                      emit the stream catalog
  --catalog <path>    run a full sync of the selected streams for every
                      configured account id

Without either flag the tap logs an informational message and exits.`,
	Version:      Version,
	SilenceUsage: true,
	RunE:         runRoot,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Path to JSON configuration file (required)")

	rootCmd.Flags().BoolVar(&discoverMode, "discover", false,
		"Run schema discovery and write the catalog to stdout")
	rootCmd.Flags().StringVar(&catalogPath, "catalog", "",
		"Path to a catalog file selecting the streams to sync")
	rootCmd.Flags().StringVar(&statePath, "state", "",
		"Path to a state file from a previous run")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx := cmd.Context()

	switch {
	case discoverMode:
		d := discover.New(cfg, log, cmd.OutOrStdout())
		if err := d.Run(ctx); err != nil {
			log.Errorw("Discovery failed", "error", err)
			return err
		}
		return nil

	case catalogPath != "":
		cat, err := catalog.Load(catalogPath)
		if err != nil {
			return err
		}
		state, err := loadState(statePath)
		if err != nil {
			return err
		}
		syncer := sync.New(cfg, cat, log, cmd.OutOrStdout(), state, sync.DefaultFactory(cfg, log))
		if err := syncer.Run(ctx); err != nil {
			log.Errorw("Sync failed", "error", err)
			return err
		}
		log.Info("Sync completed")
		return nil

	default:
		log.Info("No catalog was provided and --discover was not set; nothing to do")
		return nil
	}
}

// loadConfig loads, overrides, and validates the tap configuration.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyOverrides(logLevel, logFormat)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadState reads the opaque state document, if one was supplied.
func loadState(path string) (json.RawMessage, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("state file %s is not valid JSON", path)
	}
	return json.RawMessage(data), nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/tap-bingads/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the tap configuration",
	Long: `Validate checks the configuration file for required keys and valid
values without contacting the remote services.

Checks performed:
  - Configuration syntax (JSON)
  - Required keys: start_date, customer_id, account_ids, oauth_client_id,
    oauth_client_secret, refresh_token, developer_token
  - Logging settings

Example:
  tap-bingads validate --config config.json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()
	if configFile == "" {
		return fmt.Errorf("--config is required")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cmd.Printf("Config file: %s\n", configFile)

	if err := cfg.Validate(); err != nil {
		cmd.Printf("Validation failed:\n%v\n", err)
		return fmt.Errorf("configuration is invalid")
	}

	cmd.Printf("Accounts configured: %d\n", len(cfg.AccountIDList()))
	cmd.Println("Configuration is valid")
	return nil
}

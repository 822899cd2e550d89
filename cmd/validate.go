package cmd

import (
	"fmt"

	"github.com/EO-DataHub/eodhp-directory-services/internal/appconfig"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Check that the config file loads and its seed data is consistent",
	Run: func(cmd *cobra.Command, args []string) {

		setLogging(logLevel)

		users, groups, err := validateConfig(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Config is invalid")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "config OK: %d groups, %d users\n", groups, users)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// validateConfig loads the config at path and seeds a scratch directory
// from it, returning the resulting sizes.
func validateConfig(path string) (users, groups int, err error) {
	cfg, err := appconfig.LoadConfig(path)
	if err != nil {
		return 0, 0, err
	}

	directory, err := newDirectory(cfg, nil)
	if err != nil {
		return 0, 0, err
	}
	defer directory.Close()

	users, groups = directory.Counts()
	return users, groups, nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vvka-141/countrysync/pkg/countrysync"
)

var rootCmd = &cobra.Command{
	Use:   "countrysync",
	Short: "Synchronize the CountryInfoService directory into PostgreSQL",
	Long: `countrysync downloads the full country list from the CountryInfoService
SOAP endpoint, upserts every (code, name) pair into the country_names table
and prints the first ten rows ordered by name.

All database work runs in one transaction. Nothing is committed unless every
step succeeds.

Configuration:
  The configuration file (default db_config.json, resolved against the
  directory of the executable) must define host, user, passwd and db.
  Optional keys: port, sslmode, wsdl, timeout.

  $COUNTRYSYNC_PASSWD overrides passwd. $PGPASSWORD is used when passwd is
  empty. A .env file in the working directory is loaded first.

Exit Codes:
  0  - Success
  1  - Sync failed (configuration, remote fetch or database)
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error`,
	Args:          cobra.NoArgs,
	RunE:          runSync,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.Flags().String("config", countrysync.DefaultConfigFile,
		"Configuration file (relative paths resolve against the executable directory)")
	rootCmd.Flags().Duration("timeout", countrysync.DefaultTimeout,
		"Bound on the whole run (overrides the timeout key of the configuration file)")
	rootCmd.Flags().String("wsdl", "",
		"Service description URL (overrides the wsdl key of the configuration file)")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

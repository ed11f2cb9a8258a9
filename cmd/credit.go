package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/internal/iocache"
	"github.com/wctc-net-database/gradedash/internal/outwriter"
)

// creditSetup runs the shared setup and makes sure a persistent credit store is configured.
func creditSetup(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(rootCtx, cmd, args); err != nil {
		return err
	}
	if !cfg.CreditsEnabled() {
		return errCreditsDisabled
	}
	return nil
}

// creditCmd groups the stretch goal credit operations.
var creditCmd = &cobra.Command{
	Use:   "credit",
	Short: "Manage stretch goal credits",
	Long: `Manage the instructor's stretch goal credit flags.

A credit is a (student, goal) pair that the instructor has confirmed. Credited goals
count towards the student's stretch goal progress in every view.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  get     - Show whether a goal is credited
  set     - Credit a goal
  unset   - Remove a credit
  list    - List every credited goal
  status  - Show store statistics and connection info
  migrate - Run database migrations for the credit store

Examples:
  gradedash credit set "Ada Lovelace" w3-interface
  GRADEDASH_CREDIT_BACKEND=postgresql GRADEDASH_CREDIT_DB_CONNECT="..." gradedash credit list`,
}

// creditGetCmd shows whether a goal is credited.
var creditGetCmd = &cobra.Command{
	Use:     "get <student> <goal-id>",
	Short:   "Show whether a stretch goal is credited for a student",
	Args:    cobra.ExactArgs(2),
	PreRunE: creditSetup,
	Run: func(_ *cobra.Command, args []string) {
		credited, err := storeManager.GetCreditStore().Get(rootCtx, args[0], args[1])
		if err != nil {
			contract.LogFatal("Failed to read credit", err)
		}
		state := "not credited"
		if credited {
			state = "credited"
		}
		fmt.Printf("%s / %s: %s\n", args[0], args[1], state)
	},
}

// creditSetCmd credits a goal.
var creditSetCmd = &cobra.Command{
	Use:     "set <student> <goal-id>",
	Short:   "Credit a stretch goal for a student",
	Args:    cobra.ExactArgs(2),
	PreRunE: creditSetup,
	Run: func(_ *cobra.Command, args []string) {
		if err := storeManager.GetCreditStore().Set(rootCtx, args[0], args[1], true); err != nil {
			contract.LogFatal("Failed to set credit", err)
		}
		fmt.Printf("Credited %s for %s.\n", args[1], args[0])
	},
}

// creditUnsetCmd removes a credit.
var creditUnsetCmd = &cobra.Command{
	Use:     "unset <student> <goal-id>",
	Short:   "Remove the credit of a stretch goal for a student",
	Args:    cobra.ExactArgs(2),
	PreRunE: creditSetup,
	Run: func(_ *cobra.Command, args []string) {
		if err := storeManager.GetCreditStore().Set(rootCtx, args[0], args[1], false); err != nil {
			contract.LogFatal("Failed to unset credit", err)
		}
		fmt.Printf("Removed credit %s for %s.\n", args[1], args[0])
	},
}

// creditListCmd lists every credited goal.
var creditListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List every credited stretch goal",
	PreRunE: creditSetup,
	Run: func(_ *cobra.Command, _ []string) {
		flags, err := storeManager.GetCreditStore().List(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to list credits", err)
		}
		if err := outwriter.PrintCreditFlags(flags, cfg); err != nil {
			contract.LogFatal("Failed to print credits", err)
		}
	},
}

// creditStatusCmd shows credit store status.
var creditStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display credit store statistics and connection details",
	Long: `Show the backend, connection state, number of credited goals and whether
the migrations have been applied.`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetCreditStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get credit status", err)
		}
		iocache.PrintCreditStatus(os.Stdout, status)
	},
}

// creditMigrateCmd runs database migrations for the credit store.
//
// Migrations only need the backend settings, so this skips the shared setup
// and never opens the stores.
var creditMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations for the credit store",
	Long: `Apply or roll back the schema migrations of the credit store.

Examples:
  # Migrate to the latest version
  gradedash credit migrate

  # Roll back every migration
  gradedash credit migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return readConfigFile()
	},
	Run: func(_ *cobra.Command, _ []string) {
		backend, err := contract.ParseBackend(viper.GetString("credit-backend"), "credit backend")
		if err != nil {
			contract.LogFatal("Invalid credit backend", err)
		}
		connStr := viper.GetString("credit-db-connect")
		if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
			contract.LogFatal("Invalid credit connection", err)
		}
		msg, err := iocache.MigrateCredits(backend, connStr, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal(fmt.Sprintf("Failed to migrate %s credit store", backend), err)
		}
		fmt.Println(msg)
	},
}

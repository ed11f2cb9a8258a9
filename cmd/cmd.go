// Package cmd defines the command-line interface for gradedash.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(studentsCmd)
	rootCmd.AddCommand(studentCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(creditCmd)
	rootCmd.AddCommand(cacheCmd)

	// Add the credit subcommands to the parent credit command
	creditCmd.AddCommand(creditGetCmd)
	creditCmd.AddCommand(creditSetCmd)
	creditCmd.AddCommand(creditUnsetCmd)
	creditCmd.AddCommand(creditListCmd)
	creditCmd.AddCommand(creditStatusCmd)
	creditCmd.AddCommand(creditMigrateCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("data", contract.DefaultDataSource, "Directory or http(s) base URL holding current.json and history.json")
	rootCmd.PersistentFlags().Bool("offline", false, "Serve documents from the local document cache only")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Bool("abbreviate", false, "Show student names as 'First L' for shared screens")
	rootCmd.PersistentFlags().String("timezone", "", "IANA timezone for date filters and output (default: local)")
	rootCmd.PersistentFlags().String("goals-file", "", "YAML file with stretch goal catalog entries")
	rootCmd.PersistentFlags().String("assignment", schema.AllAssignments, "Assignment pattern to show, or 'all'")
	rootCmd.PersistentFlags().String("status", string(schema.AllStatus), "Status filter: all or failed or review or stretch or template")
	rootCmd.PersistentFlags().String("start", "", "Start date: ISO8601, YYYY-MM-DD or 'N days ago'")
	rootCmd.PersistentFlags().String("end", "", "End date: ISO8601, YYYY-MM-DD (whole day) or 'N days ago'")
	rootCmd.PersistentFlags().Int("days", 0, "Only include the last N days (ignored when --start is set)")
	rootCmd.PersistentFlags().String("credit-backend", string(schema.SQLiteBackend), "Credit flag backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("credit-db-connect", "", "Database connection string for the credit backend (file path for sqlite)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.NoneBackend), "Document cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for the document cache")
	rootCmd.PersistentFlags().String("fetch-timeout", "", "Timeout for fetching remote documents (e.g. 15s)")
	rootCmd.PersistentFlags().String("debounce", "", "Quiet period before re-rendering on data changes (e.g. 500ms)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultServeAddr, "Address for the HTTP API to listen on")
	serveCmd.Flags().Bool("watch", false, "Reload automatically when the local data directory changes")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of creditMigrateCmd to Viper
	creditMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(creditMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding credit migrate flags", err)
	}
}

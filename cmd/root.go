package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/internal/iocache"
	"github.com/wctc-net-database/gradedash/internal/outwriter"
	"github.com/wctc-net-database/gradedash/internal/snapshot"
	"github.com/wctc-net-database/gradedash/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the global persistence manager instance.
var storeManager contract.StoreManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "gradedash",
	Short: "Review student submissions from the grading pipeline snapshots.",
	Long: `Gradedash reconciles the grading pipeline's JSON snapshots into per-student views:
a dashboard of the latest submissions, score trends, feedback text and stretch goal credits.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setConfigLocation points viper at --config or the default .gradedash.yaml locations.
func setConfigLocation() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".gradedash") // Name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")     // Look in the current directory
	viper.AddConfigPath("$HOME") // Look in the home directory
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigLocation()

	// Set environment variable prefix
	viper.SetEnvPrefix("GRADEDASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("data", contract.DefaultDataSource)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("assignment", schema.AllAssignments)
	viper.SetDefault("status", schema.AllStatus)
	viper.SetDefault("credit-backend", schema.SQLiteBackend)
	viper.SetDefault("credit-db-connect", "")
	viper.SetDefault("cache-backend", schema.NoneBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("addr", contract.DefaultServeAddr)
}

// readConfigFile loads the config file if present.
func readConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and opens the stores.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := readConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.CreditBackend, cfg.CreditDBConnect, cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	storeManager = iocache.Manager
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// newLoader builds the snapshot loader for the configured data location.
func newLoader() (*snapshot.Loader, error) {
	src, err := snapshot.NewSource(cfg, storeManager)
	if err != nil {
		return nil, err
	}
	return snapshot.NewLoader(src), nil
}

// runWithLoader adapts an executor to a cobra Run function.
// When no grading data loads, the empty state is printed before exiting non-zero.
func runWithLoader(failMsg string, exec func(loader *snapshot.Loader) error) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		loader, err := newLoader()
		if err != nil {
			contract.LogFatal(failMsg, err)
		}
		if err := exec(loader); err != nil {
			reportNoData(err)
			contract.LogFatal(failMsg, err)
		}
	}
}

// reportNoData prints the no-data state when err means nothing could be loaded.
func reportNoData(err error) bool {
	if !errors.Is(err, snapshot.ErrNoData) {
		return false
	}
	if perr := outwriter.PrintNoData(cfg); perr != nil {
		contract.LogWarn("Failed to print empty state", perr)
	}
	return true
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

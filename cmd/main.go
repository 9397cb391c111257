package main

import (
	"fmt"
	"os"

	_ "time/tzdata"

	"github.com/spf13/cobra"

	"renttracker/internal/common"
	"renttracker/internal/config"
)

const version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:           "renttracker",
		Short:         "RentTracker rental property management",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		createUserCmd(),
		changePasswordCmd(),
		listUsersCmd(),
		filingReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the logger for every command.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	common.InitLogger(cfg.LogLevel)
	return cfg, nil
}

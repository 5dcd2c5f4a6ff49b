package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/FileManager/core/internal/app"
	"github.com/GriffinCanCode/FileManager/core/internal/infrastructure/config"
	"github.com/GriffinCanCode/FileManager/core/internal/logging"
	"github.com/GriffinCanCode/FileManager/core/internal/permissions"
)

type rootFlags struct {
	roots    []string
	stateDir string
	logLevel string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "fmcore",
		Short:         "Storage access core for the file manager",
		Long:          "fmcore lists, indexes, searches and soft-deletes files under the configured storage roots.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringSliceVar(&flags.roots, "root", nil, "storage root (repeatable; overrides STORAGE_ROOTS)")
	cmd.PersistentFlags().StringVar(&flags.stateDir, "state-dir", "", "state directory (overrides STATE_DIR)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "development-style console logging")

	cmd.AddCommand(
		newIndexCmd(flags),
		newSearchCmd(flags),
		newLsCmd(flags),
		newTrashCmd(flags),
		newStatsCmd(flags),
	)
	return cmd
}

// newCore builds the component graph from env config plus CLI overrides.
// The CLI runs as the file owner, so the permission oracle grants all.
func newCore(flags *rootFlags) (*app.Core, error) {
	cfg := config.LoadOrDefault()
	if len(flags.roots) > 0 {
		cfg.Storage.Roots = flags.roots
	}
	if flags.stateDir != "" {
		cfg.Storage.StateDir = flags.stateDir
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.verbose {
		cfg.Logging.Development = true
	}

	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	core, err := app.New(cfg, permissions.GrantAll(), log)
	if err != nil {
		return nil, err
	}
	return core, nil
}

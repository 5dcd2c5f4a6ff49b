package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/FileManager/core/internal/entry"
	"github.com/GriffinCanCode/FileManager/core/internal/search"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/errs"
)

func newIndexCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Walk the storage roots and publish a fresh index snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := newCore(flags)
			if err != nil {
				return err
			}
			if _, err := core.Init(cmd.Context()); err != nil {
				return err
			}

			snap, warnings, err := core.Index.Build(cmd.Context(), core.Config.Storage.Roots)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "snapshot %s: %d entries\n", snap.ID(), snap.Len())
			printWarnings(cmd, warnings)
			return nil
		},
	}
}

func newSearchCmd(flags *rootFlags) *cobra.Command {
	var glob string
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search by name across the storage roots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := newCore(flags)
			if err != nil {
				return err
			}
			if _, err := core.Init(cmd.Context()); err != nil {
				return err
			}

			results, warnings, err := core.Engine.Search(cmd.Context(), args[0], search.Scope{
				Roots:    core.Config.Storage.Roots,
				Glob:     glob,
				MaxDepth: maxDepth,
			})
			if err != nil {
				return err
			}

			for _, e := range results {
				fmt.Fprintln(cmd.OutOrStdout(), e.Path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d results\n", len(results))
			printWarnings(cmd, warnings)
			return nil
		},
	}

	cmd.Flags().StringVar(&glob, "glob", "", "filter matches by name glob")
	cmd.Flags().IntVar(&maxDepth, "depth", 0, "live walk depth cap (0 = unlimited)")
	return cmd
}

func newLsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ls <path>",
		Short: "List one directory level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := newCore(flags)
			if err != nil {
				return err
			}

			entries, warnings, err := core.Reader.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			entry.SortDefault(entries)

			for _, e := range entries {
				if e.IsDir() {
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s %6d items  %s\n", "dir", e.ChildCount, e.Name)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %12d  %s\n", "file", e.Size, e.Name)
			}
			printWarnings(cmd, warnings)
			return nil
		},
	}
}

func printWarnings(cmd *cobra.Command, warnings []errs.ItemError) {
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", w.Path, w.Err)
	}
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

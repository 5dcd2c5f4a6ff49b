package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTrashCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Manage the recycle bin",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List recycled items, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				core, err := newCore(flags)
				if err != nil {
					return err
				}
				if _, err := core.Init(cmd.Context()); err != nil {
					return err
				}

				items, err := core.Bin.List()
				if err != nil {
					return err
				}
				for _, it := range items {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-8s  %s\n",
						it.ID, formatTime(it.DeletedAt), it.Type, it.OriginalPath)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d items\n", len(items))
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <path>",
			Short: "Soft-delete a file into the recycle bin",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				core, err := newCore(flags)
				if err != nil {
					return err
				}
				if _, err := core.Init(cmd.Context()); err != nil {
					return err
				}

				item, err := core.Ops.Delete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "recycled %s as %s\n", item.OriginalPath, item.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "restore <id>",
			Short: "Restore a recycled item to its original path",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				core, err := newCore(flags)
				if err != nil {
					return err
				}
				if _, err := core.Init(cmd.Context()); err != nil {
					return err
				}

				if err := core.Bin.Restore(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "purge <id>",
			Short: "Permanently delete one recycled item",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				core, err := newCore(flags)
				if err != nil {
					return err
				}
				if _, err := core.Init(cmd.Context()); err != nil {
					return err
				}

				if err := core.Bin.Purge(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "purged %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "empty",
			Short: "Permanently delete all recycled items",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				core, err := newCore(flags)
				if err != nil {
					return err
				}
				if _, err := core.Init(cmd.Context()); err != nil {
					return err
				}

				purged, failures, err := core.Bin.EmptyAll(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "purged %d items\n", purged)
				printWarnings(cmd, failures)
				return nil
			},
		},
	)
	return cmd
}

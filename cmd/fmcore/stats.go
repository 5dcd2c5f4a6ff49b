package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show state and metrics for the storage core",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := newCore(flags)
			if err != nil {
				return err
			}
			if _, err := core.Init(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "state file: %s\n", core.Store.Path())
			fmt.Fprintf(out, "roots:      %v\n", core.Config.Storage.Roots)

			st := core.Gate.State(core.Config.Storage.Roots[0])
			fmt.Fprintf(out, "permission: %s (full access: %v)\n", st.Tier, st.FullAccess)

			if snap := core.Index.Current(); snap != nil {
				fmt.Fprintf(out, "index:      %s, %d entries, built %s (fresh: %v)\n",
					snap.ID(), snap.Len(), formatTime(snap.BuiltAt()), core.Index.Fresh())
			} else {
				fmt.Fprintln(out, "index:      none")
			}

			items, err := core.Bin.List()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "recycled:   %d items\n", len(items))

			families, err := core.Metrics.Gather()
			if err != nil {
				return err
			}
			for _, mf := range families {
				for _, m := range mf.GetMetric() {
					switch {
					case m.GetCounter() != nil:
						fmt.Fprintf(out, "metric %s %v\n", mf.GetName(), m.GetCounter().GetValue())
					case m.GetGauge() != nil:
						fmt.Fprintf(out, "metric %s %v\n", mf.GetName(), m.GetGauge().GetValue())
					}
				}
			}
			return nil
		},
	}
}

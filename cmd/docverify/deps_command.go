package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docverify/internal/deps"
)

func newDepsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of external extraction tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			requirements := deps.Requirements(cfg)
			if len(requirements) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No external tools required by the configured providers")
				return nil
			}

			statuses := deps.CheckBinaries(requirements)
			rows := make([][]string, 0, len(statuses))
			missing := false
			for _, status := range statuses {
				availability := "ok"
				if !status.Available {
					availability = status.Detail
					if !status.Optional {
						missing = true
					}
				}
				rows = append(rows, []string{status.Name, status.Command, availability})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Command", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			if missing {
				return fmt.Errorf("required external tools are missing")
			}
			return nil
		},
	}
}

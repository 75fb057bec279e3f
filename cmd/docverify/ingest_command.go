package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docverify/internal/ingest"
	"docverify/internal/queue"
)

func newIngestCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <bundle>",
		Short: "Enqueue a folder or zip of documents without processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := ingest.New(store, cfg.Paths.WorkDir, logger).IngestPath(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enqueued %d person(s), %d document(s)\n", summary.Persons, summary.Documents)
			for _, skipped := range summary.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped: %s\n", skipped)
			}
			return nil
		},
	}
}

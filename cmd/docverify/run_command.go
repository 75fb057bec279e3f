package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docverify/internal/extraction"
	"docverify/internal/ingest"
	"docverify/internal/queue"
	"docverify/internal/verification"
)

// newRunCommand builds the one-shot batch command: ingest a bundle, extract
// and verify every enqueued person synchronously, and print the results.
func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run <bundle>",
		Short: "Ingest a bundle and verify every person in it",
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

			ctx := cmd.Context()
			ingestor := ingest.New(store, cfg.Paths.WorkDir, logger)
			summary, err := ingestor.IngestPath(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enqueued %d person(s), %d document(s)\n", summary.Persons, summary.Documents)
			for _, skipped := range summary.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped: %s\n", skipped)
			}

			extractor, err := extraction.NewExtractor(cfg, store, logger)
			if err != nil {
				return err
			}
			verifier, err := verification.NewHandler(cfg, store, logger)
			if err != nil {
				return err
			}

			if err := processPending(ctx, store, extractor, verifier); err != nil {
				return err
			}
			return printResults(cmd, store)
		},
	}
}

// processPending drains the queue synchronously: each person runs through
// extraction then verification. A failed person is recorded and does not
// block the rest of the batch.
func processPending(ctx context.Context, store *queue.Store, extractor *extraction.Extractor, verifier *verification.Handler) error {
	for {
		person, err := store.NextForStatuses(ctx, queue.StatusPending, queue.StatusExtracted)
		if err != nil {
			return err
		}
		if person == nil {
			return nil
		}

		switch person.Status {
		case queue.StatusPending:
			person.Status = queue.StatusExtracting
			if err := store.Update(ctx, person); err != nil {
				return err
			}
			var execErr error
			if execErr = extractor.Prepare(ctx, person); execErr == nil {
				execErr = extractor.Execute(ctx, person)
			}
			if err := advance(ctx, store, person, execErr, queue.StatusExtracted); err != nil {
				return err
			}
		case queue.StatusExtracted:
			person.Status = queue.StatusVerifying
			if err := store.Update(ctx, person); err != nil {
				return err
			}
			var execErr error
			if execErr = verifier.Prepare(ctx, person); execErr == nil {
				execErr = verifier.Execute(ctx, person)
			}
			if err := advance(ctx, store, person, execErr, queue.StatusCompleted); err != nil {
				return err
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func advance(ctx context.Context, store *queue.Store, person *queue.Person, execErr error, done queue.Status) error {
	if execErr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		person.SetFailed(execErr.Error())
	} else {
		person.Status = done
	}
	return store.Update(ctx, person)
}

func printResults(cmd *cobra.Command, store *queue.Store) error {
	ctx := cmd.Context()
	persons, err := store.List(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(persons))
	for _, person := range persons {
		result := string(person.Status)
		if person.Status == queue.StatusCompleted {
			if rep, err := store.LatestReport(ctx, person.ID); err == nil && rep != nil {
				result = rep.OverallStatus
			}
		} else if person.ErrorMessage != "" {
			result = fmt.Sprintf("%s (%s)", person.Status, person.ErrorMessage)
		}
		rows = append(rows, []string{person.PersonKey, result})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Person", "Result"},
		rows,
		[]columnAlignment{alignLeft, alignLeft},
	))
	return nil
}

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"docverify/internal/queue"
)

func newQueueCommand(cmdCtx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the verification queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	queueCmd.AddCommand(newQueueListCommand(cmdCtx))
	queueCmd.AddCommand(newQueueHealthCommand(cmdCtx))
	queueCmd.AddCommand(newQueueRetryCommand(cmdCtx))
	queueCmd.AddCommand(newQueueClearCommand(cmdCtx))
	return queueCmd
}

func openStore(cmdCtx *commandContext) (*queue.Store, error) {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return queue.Open(cfg)
}

func newQueueListCommand(cmdCtx *commandContext) *cobra.Command {
	var statusFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persons in the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			var statuses []queue.Status
			if statusFlag != "" {
				status, ok := queue.ParseStatus(statusFlag)
				if !ok {
					return fmt.Errorf("unknown status %q", statusFlag)
				}
				statuses = append(statuses, status)
			}
			persons, err := store.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(persons))
			for _, person := range persons {
				rows = append(rows, []string{
					strconv.FormatInt(person.ID, 10),
					person.PersonKey,
					string(person.Status),
					person.CreatedAt.Local().Format(time.DateTime),
					person.ErrorMessage,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Person", "Status", "Created", "Error"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status")
	return cmd
}

func newQueueHealthCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show aggregate queue counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := store.Health(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total:      %d\n", summary.Total)
			fmt.Fprintf(out, "Pending:    %d\n", summary.Pending)
			fmt.Fprintf(out, "Processing: %d\n", summary.Processing)
			fmt.Fprintf(out, "Failed:     %d\n", summary.Failed)
			fmt.Fprintf(out, "Completed:  %d\n", summary.Completed)
			return nil
		},
	}
}

func newQueueRetryCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [id...]",
		Short: "Requeue failed persons",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid id %q", arg)
				}
				ids = append(ids, id)
			}
			count, err := store.RetryFailed(cmd.Context(), ids...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Requeued %d person(s)\n", count)
			return nil
		},
	}
}

func newQueueClearCommand(cmdCtx *commandContext) *cobra.Command {
	var completedOnly bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove persons from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			var statuses []queue.Status
			if completedOnly {
				statuses = append(statuses, queue.StatusCompleted)
			}
			count, err := store.Clear(cmd.Context(), statuses...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d person(s)\n", count)
			return nil
		},
	}
	cmd.Flags().BoolVar(&completedOnly, "completed", false, "Only remove completed persons")
	return cmd
}

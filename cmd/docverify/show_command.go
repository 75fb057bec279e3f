package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"docverify/internal/report"
)

func newShowCommand(cmdCtx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <person>",
		Short: "Show the latest verification report for a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmdCtx)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			person, err := store.GetByKey(ctx, args[0])
			if err != nil {
				return err
			}
			if person == nil {
				return fmt.Errorf("person %q not found", args[0])
			}
			row, err := store.LatestReport(ctx, person.ID)
			if err != nil {
				return err
			}
			if row == nil {
				return fmt.Errorf("no report for %q yet (status: %s)", args[0], person.Status)
			}

			if jsonOutput {
				fmt.Fprintln(cmd.OutOrStdout(), row.ReportJSON)
				return nil
			}

			var rep report.Report
			if err := json.Unmarshal([]byte(row.ReportJSON), &rep); err != nil {
				return fmt.Errorf("decode stored report: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Person:    %s\n", rep.PersonID)
			fmt.Fprintf(out, "Run:       %s\n", rep.RunID)
			fmt.Fprintf(out, "Status:    %s\n", rep.OverallStatus)
			fmt.Fprintf(out, "Generated: %s\n\n", rep.GeneratedAt.Local().Format(time.DateTime))

			outcomeRows := make([][]string, 0, len(rep.Outcomes))
			for _, outcome := range rep.Outcomes {
				outcomeRows = append(outcomeRows, []string{
					outcome.RuleID,
					string(outcome.Status),
					outcome.Message,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Rule", "Status", "Message"},
				outcomeRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if len(rep.Fields) > 0 {
				fieldRows := make([][]string, 0, len(rep.Fields))
				for _, field := range rep.Fields {
					value := field.Value
					if field.Conflicted {
						value += " (conflicted)"
					}
					fieldRows = append(fieldRows, []string{
						string(field.Name),
						value,
						fmt.Sprintf("%.2f", field.Confidence),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Field", "Value", "Confidence"},
					fieldRows,
					[]columnAlignment{alignLeft, alignLeft, alignRight},
				))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the stored report JSON")
	return cmd
}

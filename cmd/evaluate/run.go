package main

import (
	"fmt"
	"time"

	"hvac_quote_backend/internal/evaluation"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Predict every address without hints and write a report",
	Example: `  evaluate run --file testing-data.tsv --limit 10
  evaluate run --rate 0.5 --out /tmp/results`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		actuals, err := loadActuals()
		if err != nil {
			return err
		}
		runner, err := newRunner()
		if err != nil {
			return err
		}

		log.Info("evaluation started", "addresses", len(actuals))
		report, err := runner.Run(cmd.Context(), actuals, evaluation.NoHints)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}

		path, err := evaluation.WriteJSON(flagOut, "test-results", time.Now(), report)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total:       %d\n", report.TotalTests)
		fmt.Fprintf(out, "Exact:       %d\n", report.ExactMatches)
		fmt.Fprintf(out, "Close:       %d\n", report.CloseMatches)
		fmt.Fprintf(out, "Directional: %d\n", report.DirectionalMatches)
		fmt.Fprintf(out, "Incorrect:   %d\n", report.IncorrectMatches)
		fmt.Fprintf(out, "Accuracy:    %.1f%%\n", report.AccuracyRate)
		fmt.Fprintf(out, "Report:      %s\n", path)
		return nil
	},
}

package main

import (
	"fmt"
	"time"

	"hvac_quote_backend/internal/evaluation"

	"github.com/spf13/cobra"
)

var ablationCmd = &cobra.Command{
	Use:   "ablation",
	Short: "Compare accuracy across homeowner hint combinations",
	Long: `Runs the evaluation once per hint configuration (ductwork only, rooms
only, both) over the same addresses and reports which did best.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		actuals, err := loadActuals()
		if err != nil {
			return err
		}
		runner, err := newRunner()
		if err != nil {
			return err
		}

		report, err := runner.RunAblation(cmd.Context(), actuals, evaluation.AblationConfigs)
		if err != nil {
			return fmt.Errorf("ablation: %w", err)
		}

		path, err := evaluation.WriteJSON(flagOut, "ablation-results", time.Now(), report)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, r := range report.Results {
			fmt.Fprintf(out, "%-20s %5.1f%%  (exact %d, close %d, directional %d, incorrect %d)\n",
				r.Config.Name, r.Report.AccuracyRate,
				r.Report.ExactMatches, r.Report.CloseMatches,
				r.Report.DirectionalMatches, r.Report.IncorrectMatches)
		}
		if best, ok := report.Best(); ok {
			fmt.Fprintf(out, "Best: %s (%s)\n", best.Config.Name, best.Config.Description)
		}
		fmt.Fprintf(out, "Report: %s\n", path)
		return nil
	},
}

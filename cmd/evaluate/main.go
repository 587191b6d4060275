package main

import (
	"fmt"
	"os"

	"hvac_quote_backend/internal/evaluation"
	"hvac_quote_backend/internal/prediction"
	"hvac_quote_backend/internal/property/client"
	"hvac_quote_backend/internal/property/service"
	"hvac_quote_backend/platform/config"
	"hvac_quote_backend/platform/logger"

	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	log *logger.Logger
)

var (
	flagFile        string
	flagLimit       int
	flagOut         string
	flagConcurrency int
	flagRate        float64
)

var rootCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Measure prediction accuracy against recorded installations",
	Long: `Reads a tab-separated file of completed installations, looks up each
property, asks the configured model for a prediction and grades the answer
against what was actually installed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg = config.Read()
		log = logger.New(cfg.Env)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagFile, "file", "testing-data.tsv", "TSV of recorded installations")
	pf.IntVar(&flagLimit, "limit", 0, "evaluate at most this many rows (0 for all)")
	pf.StringVar(&flagOut, "out", "results", "directory for JSON reports")
	pf.IntVar(&flagConcurrency, "concurrency", 2, "predictions in flight")
	pf.Float64Var(&flagRate, "rate", 1, "model calls per second (0 for unlimited)")

	rootCmd.AddCommand(runCmd, ablationCmd)
}

// newRunner builds the lookup and predictor from the environment.
func newRunner() (*evaluation.Runner, error) {
	if !cfg.IsPropertyLookupEnabled() {
		return nil, fmt.Errorf("RENTCAST_API_KEY is required")
	}
	lookup := service.New(
		client.New(cfg.GetRentCastAPIKey(), cfg.GetRentCastBaseURL(), log),
		cfg.GetPropertyCacheTTL(),
		log,
	)
	predictor, err := prediction.NewFromConfig(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("predictor: %w", err)
	}
	return evaluation.NewRunner(lookup, predictor, flagRate, flagConcurrency, log), nil
}

func loadActuals() ([]evaluation.Actual, error) {
	actuals, err := evaluation.LoadActuals(flagFile)
	if err != nil {
		return nil, err
	}
	if flagLimit > 0 && flagLimit < len(actuals) {
		actuals = actuals[:flagLimit]
	}
	if len(actuals) == 0 {
		return nil, fmt.Errorf("no usable rows in %s", flagFile)
	}
	return actuals, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

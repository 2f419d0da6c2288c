package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"evidon/internal/eval"
)

var evalParallelism int

var evalCmd = &cobra.Command{
	Use:   "eval <suite.yaml>",
	Short: "Run a regression suite against the pipeline",
	Long: `Loads an evalset suite and runs every case through the structuring
pipeline, comparing the requirement state, event-IO decision, and tag
validation against the expected contract. Exits non-zero when any case
fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		suite, err := eval.LoadSuite(args[0])
		if err != nil {
			return err
		}

		parallelism := cfg.Eval.Parallelism
		if evalParallelism > 0 {
			parallelism = evalParallelism
		}

		runner := &eval.Runner{
			Parallelism: parallelism,
			Log:         logger,
		}
		report, err := runner.RunSuite(cmd.Context(), suite)
		if err != nil {
			return err
		}

		logger.Info("suite finished",
			zap.String("suite", suite.Name),
			zap.Int("passed", report.Passed),
			zap.Int("warned", report.Warned),
			zap.Int("failed", report.Failed))

		if err := printJSON(report); err != nil {
			return err
		}
		if !report.OK() {
			return fmt.Errorf("%d of %d cases failed", report.Failed, len(report.Cases))
		}
		return nil
	},
}

func init() {
	evalCmd.Flags().IntVar(&evalParallelism, "parallelism", 0, "concurrent cases (0 = config value)")
	rootCmd.AddCommand(evalCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"evidon/internal/trial"
)

var (
	signalsMaxText     int
	signalsMaxEvidence int
	signalsMaxSummary  int
	signalsMaxCodes    int
)

var signalsCmd = &cobra.Command{
	Use:   "signals [text]",
	Short: "Extract trial risk signals from raw text",
	Long: `Runs keyword and repetition heuristics over the given text (or stdin)
and prints the resulting trial signal set as JSON. Failing self checks
are reported on stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(args)
		if err != nil {
			return err
		}

		lim := trial.DefaultLimits()
		if signalsMaxText > 0 {
			lim.FullTextMaxChars = signalsMaxText
		}
		if signalsMaxEvidence > 0 {
			lim.EvidenceSpanMaxChars = signalsMaxEvidence
		}
		if signalsMaxSummary > 0 {
			lim.SummaryMaxChars = signalsMaxSummary
		}
		if signalsMaxCodes > 0 {
			lim.ReasonCodesMaxItems = signalsMaxCodes
		}

		out := trial.FromText(text, lim)
		check := trial.ValidateOutput(out)

		logger.Info("trial signals extracted",
			zap.Int("signals", len(out.Signals)),
			zap.String("check", string(check.Status)))

		if err := printJSON(out); err != nil {
			return err
		}
		if !check.IsValid() {
			fmt.Fprintln(cmd.ErrOrStderr(), "signal set check:", check.Status)
			for _, m := range check.Messages {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", m.Code, m.Text)
			}
		}
		return nil
	},
}

func init() {
	signalsCmd.Flags().IntVar(&signalsMaxText, "max-text", 0, "full text budget in characters (0 = default)")
	signalsCmd.Flags().IntVar(&signalsMaxEvidence, "max-evidence", 0, "evidence span budget in characters (0 = default)")
	signalsCmd.Flags().IntVar(&signalsMaxSummary, "max-summary", 0, "summary budget in characters (0 = default)")
	signalsCmd.Flags().IntVar(&signalsMaxCodes, "max-codes", 0, "reason code budget per signal (0 = default)")
	rootCmd.AddCommand(signalsCmd)
}

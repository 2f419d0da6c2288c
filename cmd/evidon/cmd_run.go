package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"evidon/internal/anchor"
	"evidon/internal/llm"
	"evidon/internal/requirement"
	"evidon/internal/store"
	"evidon/internal/structuring"
	"evidon/internal/stt"
	"evidon/internal/trial"
)

var (
	runNoCache bool
	runTrial   bool
	runStrict  bool
)

var runCmd = &cobra.Command{
	Use:   "run [text]",
	Short: "Run the full structuring pipeline on incident text",
	Long: `Runs text through structuring, anchor matching, validation, tagging,
the requirement state machine, and the event-IO policy. With --trial,
evidence-mode trial signals are derived as well.

Text may be passed as an argument or piped on stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(args)
		if err != nil {
			return err
		}

		client, err := buildClient(cmd)
		if err != nil {
			return err
		}

		opts := structuring.Options{Logger: logger}
		if !runNoCache {
			cache, err := store.OpenResultCache(cfg.DataDir,
				structuring.SchemaVersion, structuring.PromptVersion, logger)
			if err != nil {
				return err
			}
			defer cache.Close()
			opts.Cache = cache
			opts.Anchors = store.NewAnchorFileStore(cfg.DataDir, logger)
		}

		docValidator := structuring.NewSchemaValidator(logger)
		if runStrict {
			docValidator = structuring.NewStrictSchemaValidator(logger)
		}
		pipeline := structuring.NewPipeline(
			client,
			anchor.ExactMatcher{},
			docValidator,
			opts,
		)

		transcript, err := stt.MockEngine{}.Transcribe(cmd.Context(), text)
		if err != nil {
			return err
		}
		in := structuring.FromSTT(transcript)

		result, ts, err := pipeline.RunWithTags(cmd.Context(), in)
		if err != nil {
			return err
		}
		svc := requirement.Evaluate(ts, nil)

		out := map[string]any{
			"structuring":       result,
			"tags":              ts,
			"tag_validation":    svc.TagValidation,
			"requirement_state": svc.State,
			"event_io":          svc.EventIO,
		}
		if runTrial {
			var signals trial.Output
			if runNoCache {
				signals = trial.FromDocument(result.OutputJSON, ts,
					cfg.Trial.MaxEvidence, cfg.Trial.Limits)
			} else {
				signals, _, err = trial.NewFileCache(cfg.DataDir, logger).GetOrCreate(
					result.RunID, structuring.SchemaVersion, structuring.PromptVersion,
					result.OutputJSON, ts, cfg.Trial.MaxEvidence, cfg.Trial.Limits)
				if err != nil {
					return err
				}
			}
			out["trial_signals"] = signals
			out["trial_signals_validation"] = trial.ValidateOutput(signals)
		}

		return printJSON(out)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "skip the structured-result cache")
	runCmd.Flags().BoolVar(&runTrial, "trial", false, "derive evidence-mode trial signals")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "add the strict anchor-consistency and confidence-policy rules")
	rootCmd.AddCommand(runCmd)
}

func readText(args []string) (string, error) {
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("no text argument and stdin unreadable: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("empty input text")
	}
	return text, nil
}

func buildClient(cmd *cobra.Command) (llm.Client, error) {
	switch cfg.LLM.Provider {
	case "gemini":
		client, err := llm.NewGeminiClient(cmd.Context(), llm.GeminiConfig{
			APIKey: cfg.LLM.APIKey,
			Model:  cfg.LLM.Model,
		})
		if err != nil {
			return nil, err
		}
		logger.Debug("using gemini client", zap.String("model", cfg.LLM.Model))
		return client, nil
	case "mock", "":
		return llm.MockClient{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

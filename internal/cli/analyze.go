package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/licitia/tdranalyzer/internal/config"
	"github.com/licitia/tdranalyzer/internal/llm"
	"github.com/licitia/tdranalyzer/internal/logging"
	"github.com/licitia/tdranalyzer/internal/pdfextract"
	"github.com/licitia/tdranalyzer/internal/service"
)

// AnalyzeCmd returns the analyze command: one local PDF in, the structured
// analysis on stdout. Useful for smoke-testing credentials and prompts
// without standing up the server.
func AnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file.pdf>",
		Short: "Analyze a local TDR PDF and print the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	cmd.Flags().String("provider", "", "LLM provider: gemini, openai or anthropic (defaults to TDR_DEFAULT_LLM_PROVIDER)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.Debug)
	defer logger.Sync()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	if int64(len(data)) > cfg.MaxFileSizeBytes() {
		return fmt.Errorf("%s exceeds the maximum size of %dMB", args[0], cfg.MaxFileSizeMB)
	}

	provider, _ := cmd.Flags().GetString("provider")

	factory := llm.NewFactory(cfg, logger)
	analyzerSvc := service.NewAnalyzerService(factory, pdfextract.New(), cfg, logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
	defer cancel()

	result, err := analyzerSvc.AnalyzeDocument(ctx, data, args[0], provider)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/coverforge/internal/ai"
	"github.com/amishk599/coverforge/internal/generator"
)

var generateFlags applicationFlags

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a cover letter without the form",
	Long:  "Builds the prompt from flags and the config profile, sends one request and prints the letter. Exits 1 if generation fails.",
	RunE:  runGenerate,
}

func init() {
	generateFlags.bind(generateCmd, true)
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// stdout carries the letter, so logs go to stderr.
	logger := setupLogger(debug, os.Stderr)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	app, err := generateFlags.application(cfg)
	if err != nil {
		logger.Error("invalid input", "error", err)
		os.Exit(1)
	}
	if app.APIKey == "" {
		logger.Warn("no API key set; use --api-key, openai.api_key or OPENAI_API_KEY")
	}

	drafts, closeStore, err := setupStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open history", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	provider := ai.NewOpenAIProvider(cfg.OpenAI.BaseURL, newHTTPClient(cfg))
	gen := generator.NewGenerator(provider, drafts, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Debug("generating", "model", app.Model, "position", app.Position, "company", app.Company)
	session, err := gen.GenerateForm(ctx, generator.NewSession(app))
	if err != nil {
		fmt.Fprintln(os.Stderr, session.Letter)
		closeStore()
		os.Exit(1)
	}
	fmt.Fprintln(cmd.OutOrStdout(), session.Letter)
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/coverforge/internal/ai"
	"github.com/amishk599/coverforge/internal/model"
)

var checkAPIKey string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the API key",
	Long:  "Lists the models the API key can access and reports which supported chat models are available. Nothing is generated.",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkAPIKey, "api-key", "", "OpenAI API key (default: config openai.api_key or OPENAI_API_KEY)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug, os.Stdout)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	apiKey := resolveAPIKey(checkAPIKey, cfg)
	if apiKey == "" {
		logger.Error("no API key set; use --api-key, openai.api_key or OPENAI_API_KEY")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checker := ai.NewKeyChecker(cfg.OpenAI.BaseURL, newHTTPClient(cfg))
	report, err := checker.Check(ctx, apiKey)
	if err != nil {
		var httpErr *model.HTTPError
		if errors.As(err, &httpErr) && httpErr.Unauthorized() {
			logger.Error("API key rejected", "status", httpErr.StatusCode, "error", httpErr.Err)
		} else {
			logger.Error("key check failed", "error", err)
		}
		os.Exit(1)
	}

	for _, m := range report.Available {
		fmt.Printf("  ✓ %s\n", m)
	}
	for _, m := range report.Missing {
		fmt.Printf("  ✗ %s (not available to this key)\n", m)
	}
	logger.Info("check complete", "available", len(report.Available), "missing", len(report.Missing))
	return nil
}

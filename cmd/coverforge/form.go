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
	"github.com/amishk599/coverforge/internal/prompt"
	"github.com/amishk599/coverforge/internal/tui"
)

var printOnExit bool

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Fill in the cover letter form (TUI)",
	Long:  "Opens the interactive form. The left pane holds the fields; the right pane shows the prompt (ctrl+p) or the generated letter (ctrl+r).",
	RunE:  runForm,
}

func init() {
	formCmd.Flags().BoolVar(&printOnExit, "print", false, "print the last generated letter to stdout on exit")
	rootCmd.Flags().BoolVar(&printOnExit, "print", false, "print the last generated letter to stdout on exit")
	rootCmd.AddCommand(formCmd)
}

func runForm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := setupFileLogger(debug, logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	drafts, closeStore, err := setupStore(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open history: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	provider := ai.NewOpenAIProvider(cfg.OpenAI.BaseURL, newHTTPClient(cfg))
	gen := generator.NewGenerator(provider, drafts, logger)

	form := cfg.Application()
	form.APIKey = resolveAPIKey("", cfg)
	session := generator.NewSession(form)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("form opened", "model", session.Form.Model, "history", cfg.History.Enabled)
	final, err := tui.RunForm(ctx, session, gen, prompt.NewTokenCounter())
	if err != nil {
		logger.Error("form failed", "error", err)
		return err
	}
	logger.Info("form closed", "generations", final.Latest())

	if printOnExit && final.HasLetter && final.Letter != generator.FailureMessage {
		fmt.Println(final.Letter)
	}
	return nil
}

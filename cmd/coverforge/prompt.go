package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/coverforge/internal/prompt"
)

var promptFlags applicationFlags

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the prompt that would be sent",
	Long:  "Builds the prompt from flags and the config profile and prints it with a token estimate. Nothing is sent.",
	RunE:  runPrompt,
}

func init() {
	promptFlags.bind(promptCmd, false)
	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	app, err := promptFlags.application(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid input: %v\n", err)
		os.Exit(1)
	}

	text := prompt.Build(app)
	budget := prompt.NewBudget(app.Model, prompt.NewTokenCounter().Count(app.Model, text))

	out := cmd.OutOrStdout()
	fmt.Fprint(out, text)
	fmt.Fprintf(os.Stderr, "\n%s: ≈%d prompt tokens of %d, %d left for the letter\n",
		app.Model, budget.PromptTokens, budget.Window, budget.Remaining)
	if budget.Tight() {
		fmt.Fprintf(os.Stderr, "warning: fewer than %d tokens remain for the letter\n", prompt.ReservedCompletionTokens)
	}
	return nil
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/coverforge/internal/model"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported chat models",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	fmt.Printf("%-20s %-10s %s\n", "Model", "Context", "")
	fmt.Println(strings.Repeat("─", 40))
	for _, m := range model.ChatModels {
		mark := ""
		if m == model.DefaultChatModel {
			mark = "default"
		}
		fmt.Printf("%-20s %-10d %s\n", m, m.ContextWindow(), mark)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/coverforge/internal/config"
	"github.com/amishk599/coverforge/internal/model"
	"github.com/amishk599/coverforge/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved drafts",
	Long:  "Lists and prints cover letters saved while history.enabled is true in the config.",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved drafts, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum drafts to list (0 = all)")
	historyCmd.AddCommand(historyListCmd, historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*store.SQLiteStore, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return openHistoryStore(cfg)
}

func openHistoryStore(cfg *config.Config) (*store.SQLiteStore, error) {
	if !cfg.History.Enabled {
		return nil, errors.New("history is disabled; set history.enabled: true in the config")
	}
	return store.NewSQLiteStore(cfg.History.Path)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	s, err := openHistory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	drafts, err := s.List(context.Background(), historyLimit)
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		fmt.Println("No drafts saved yet.")
		return nil
	}

	fmt.Printf("%-36s  %-16s  %-17s  %s\n", "ID", "Created", "Model", "Position @ Company")
	fmt.Println(strings.Repeat("─", 100))
	for _, d := range drafts {
		fmt.Printf("%-36s  %-16s  %-17s  %s\n", d.ID, d.CreatedAt.Local().Format("2006-01-02 15:04"), d.Model, describe(d))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	s, err := openHistory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	d, err := s.Get(context.Background(), args[0])
	if errors.Is(err, model.ErrDraftNotFound) {
		fmt.Fprintf(os.Stderr, "no draft with id %s\n", args[0])
		s.Close()
		os.Exit(1)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s  %s  %s\n\n", describe(d), d.Model, d.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Println(d.Letter)
	return nil
}

func describe(d model.Draft) string {
	position, company := d.Position, d.Company
	if strings.TrimSpace(position) == "" {
		position = "(no position)"
	}
	if strings.TrimSpace(company) == "" {
		company = "(no company)"
	}
	return position + " @ " + company
}

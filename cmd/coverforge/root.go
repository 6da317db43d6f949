package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/amishk599/coverforge/internal/config"
	"github.com/amishk599/coverforge/internal/model"
	"github.com/amishk599/coverforge/internal/store"
)

var (
	cfgPath string
	debug   bool
	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "coverforge",
	Short: "Cover letter generator",
	Long:  "coverforge turns a job posting and your experience into a cover letter using the OpenAI chat completions API.",
	// Without a subcommand, open the interactive form.
	RunE:         runForm,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: COVERFORGE_CONFIG env var or ./coverforge.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file used by the interactive form (default: <user cache dir>/coverforge/coverforge.log)")
}

// loadConfig loads .env, then resolves the config path and parses it.
// Priority: explicit path arg > COVERFORGE_CONFIG env var > "./coverforge.yaml".
// Only the default path may be missing.
func loadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("COVERFORGE_CONFIG")
	}
	if path == "" {
		return config.LoadOptional("coverforge.yaml")
	}
	return config.Load(path)
}

func setupLogger(dbg bool, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// setupFileLogger logs to path, or to the default cache location when path is
// empty. The TUI owns the terminal, so nothing may be written to stdout.
func setupFileLogger(dbg bool, path string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve cache dir: %w", err)
		}
		path = filepath.Join(dir, "coverforge", "coverforge.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return setupLogger(dbg, f), f, nil
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.OpenAI.Timeout}
}

// setupStore opens the draft history when enabled. The returned close func is
// always safe to call.
func setupStore(cfg *config.Config, logger *slog.Logger) (model.DraftStore, func(), error) {
	if !cfg.History.Enabled {
		return store.NewNopStore(), func() {}, nil
	}
	sqlStore, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("draft history enabled", "path", cfg.History.Path)
	return sqlStore, func() { sqlStore.Close() }, nil
}

// resolveAPIKey picks the key to send. Priority: explicit flag > config >
// OPENAI_API_KEY env var.
func resolveAPIKey(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.OpenAI.APIKey != "" {
		return cfg.OpenAI.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

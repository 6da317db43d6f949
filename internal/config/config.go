package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/coverforge/internal/model"
)

// Config is the root configuration for coverforge.
type Config struct {
	OpenAI  OpenAIConfig
	Profile ProfileConfig
	History HistoryConfig
}

// OpenAIConfig controls the completion endpoint.
type OpenAIConfig struct {
	BaseURL string          // defaults to https://api.openai.com/v1
	APIKey  string          // prefills the form; ${VAR} references are expanded by Load
	Model   model.ChatModel // initial model selection
	Timeout time.Duration   // per-request timeout; zero means none
}

// ProfileConfig prefills form fields that rarely change between applications.
type ProfileConfig struct {
	Position    string
	Company     string
	Experiences string
	Examples    []string // at most model.MaxExamples
}

// HistoryConfig controls the optional draft history.
type HistoryConfig struct {
	Enabled bool
	Path    string
}

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultHistoryPath   = "coverforge.db"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	OpenAI  rawOpenAIConfig  `yaml:"openai"`
	Profile rawProfileConfig `yaml:"profile"`
	History rawHistoryConfig `yaml:"history"`
}

type rawOpenAIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

type rawProfileConfig struct {
	Position    string   `yaml:"position"`
	Company     string   `yaml:"company"`
	Experiences string   `yaml:"experiences"`
	Examples    []string `yaml:"examples"`
}

type rawHistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg, err := parse(rawConfig{})
	if err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	return cfg
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Only settings are expanded; profile text is prompt content and may
	// contain a literal '$'.
	raw.OpenAI.BaseURL = os.ExpandEnv(raw.OpenAI.BaseURL)
	raw.OpenAI.APIKey = os.ExpandEnv(raw.OpenAI.APIKey)
	raw.History.Path = os.ExpandEnv(raw.History.Path)

	return parse(raw)
}

// LoadOptional behaves like Load but returns Default when path does not exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func parse(raw rawConfig) (*Config, error) {
	var err error

	timeout := time.Duration(0) // default: no timeout
	if raw.OpenAI.Timeout != "" {
		timeout, err = time.ParseDuration(raw.OpenAI.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse openai.timeout %q: %w", raw.OpenAI.Timeout, err)
		}
	}

	chatModel := model.DefaultChatModel
	if raw.OpenAI.Model != "" {
		chatModel, err = model.ParseChatModel(raw.OpenAI.Model)
		if err != nil {
			return nil, fmt.Errorf("parse openai.model: %w", err)
		}
	}

	baseURL := strings.TrimRight(raw.OpenAI.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	historyPath := raw.History.Path
	if historyPath == "" {
		historyPath = defaultHistoryPath
	}

	cfg := &Config{
		OpenAI: OpenAIConfig{
			BaseURL: baseURL,
			APIKey:  raw.OpenAI.APIKey,
			Model:   chatModel,
			Timeout: timeout,
		},
		Profile: ProfileConfig{
			Position:    raw.Profile.Position,
			Company:     raw.Profile.Company,
			Experiences: raw.Profile.Experiences,
			Examples:    raw.Profile.Examples,
		},
		History: HistoryConfig{
			Enabled: raw.History.Enabled,
			Path:    historyPath,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.OpenAI.Timeout < 0 {
		return fmt.Errorf("openai.timeout must not be negative, got %v", cfg.OpenAI.Timeout)
	}
	if !strings.HasPrefix(cfg.OpenAI.BaseURL, "http://") && !strings.HasPrefix(cfg.OpenAI.BaseURL, "https://") {
		return fmt.Errorf("openai.base_url must be an http(s) URL, got %q", cfg.OpenAI.BaseURL)
	}
	if len(cfg.Profile.Examples) > model.MaxExamples {
		return fmt.Errorf("profile.examples allows at most %d letters, got %d", model.MaxExamples, len(cfg.Profile.Examples))
	}
	return nil
}

// Application returns a form prefilled from the config.
func (c *Config) Application() model.Application {
	app := model.Application{
		Model:       c.OpenAI.Model,
		Position:    c.Profile.Position,
		Company:     c.Profile.Company,
		Experiences: c.Profile.Experiences,
		APIKey:      c.OpenAI.APIKey,
	}
	copy(app.Examples[:], c.Profile.Examples)
	return app
}

package model

import (
	"context"
	"fmt"
	"time"
)

// MaxExamples is the number of prior cover letter slots on the form.
const MaxExamples = 3

// ChatModel identifies one of the supported chat completion models.
type ChatModel string

const (
	GPT35Turbo    ChatModel = "gpt-3.5-turbo"
	GPT35Turbo16k ChatModel = "gpt-3.5-turbo-16k"
	GPT4          ChatModel = "gpt-4"
)

// DefaultChatModel is selected on a fresh form.
const DefaultChatModel = GPT35Turbo

// ChatModels lists the selectable models in display order.
var ChatModels = []ChatModel{GPT35Turbo, GPT35Turbo16k, GPT4}

// ContextWindow returns the model's context size in tokens.
func (m ChatModel) ContextWindow() int {
	switch m {
	case GPT35Turbo16k:
		return 16384
	case GPT4:
		return 8192
	default:
		return 4096
	}
}

// Next returns the model after m in ChatModels, wrapping around.
func (m ChatModel) Next() ChatModel {
	return m.step(1)
}

// Prev returns the model before m in ChatModels, wrapping around.
func (m ChatModel) Prev() ChatModel {
	return m.step(-1)
}

func (m ChatModel) step(delta int) ChatModel {
	n := len(ChatModels)
	for i, cm := range ChatModels {
		if cm == m {
			return ChatModels[((i+delta)%n+n)%n]
		}
	}
	return DefaultChatModel
}

// ParseChatModel validates a model identifier.
func ParseChatModel(s string) (ChatModel, error) {
	for _, m := range ChatModels {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported model %q (want one of %v)", s, ChatModels)
}

// Application holds the job-application fields collected by the form.
type Application struct {
	Model          ChatModel
	Position       string
	Company        string
	JobDescription string
	Experiences    string
	Examples       [MaxExamples]string // prior cover letters, each optional
	APIKey         string              // memory only; never persisted
}

// CompletionRequest is a single chat completion call.
type CompletionRequest struct {
	Model  ChatModel
	Prompt string
	APIKey string
}

// Draft is a successful generation saved to history.
type Draft struct {
	ID        string
	CreatedAt time.Time
	Model     ChatModel
	Position  string
	Company   string
	Prompt    string
	Letter    string
}

// DraftStore persists generated cover letters.
type DraftStore interface {
	Save(ctx context.Context, d Draft) error
	List(ctx context.Context, limit int) ([]Draft, error)
	Get(ctx context.Context, id string) (Draft, error)
}

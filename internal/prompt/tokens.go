package prompt

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/amishk599/coverforge/internal/model"
)

// ReservedCompletionTokens is the headroom a 350-450 word letter needs.
const ReservedCompletionTokens = 1024

// Counter counts prompt tokens for a model.
type Counter interface {
	Count(m model.ChatModel, text string) int
}

// TokenCounter counts tokens with the model's tiktoken encoding. Encodings are
// loaded lazily and cached; when one cannot be loaded (e.g. offline) Count
// falls back to EstimateTokens.
type TokenCounter struct {
	mu          sync.Mutex
	encoders    map[model.ChatModel]*tiktoken.Tiktoken
	unavailable map[model.ChatModel]bool
	load        func(modelName string) (*tiktoken.Tiktoken, error)
}

// NewTokenCounter returns a counter backed by tiktoken.EncodingForModel.
func NewTokenCounter() *TokenCounter {
	return &TokenCounter{
		encoders:    make(map[model.ChatModel]*tiktoken.Tiktoken),
		unavailable: make(map[model.ChatModel]bool),
		load:        tiktoken.EncodingForModel,
	}
}

// Count returns the number of tokens text encodes to for model m.
func (c *TokenCounter) Count(m model.ChatModel, text string) int {
	enc := c.encoder(m)
	if enc == nil {
		return EstimateTokens(text)
	}
	return len(enc.Encode(text, nil, nil))
}

func (c *TokenCounter) encoder(m model.ChatModel) *tiktoken.Tiktoken {
	c.mu.Lock()
	defer c.mu.Unlock()

	if enc, ok := c.encoders[m]; ok {
		return enc
	}
	if c.unavailable[m] {
		return nil
	}
	enc, err := c.load(string(m))
	if err != nil {
		c.unavailable[m] = true
		return nil
	}
	c.encoders[m] = enc
	return enc
}

// EstimateTokens approximates a token count at four characters per token.
func EstimateTokens(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

// Budget describes how much of the model's context a prompt uses.
type Budget struct {
	PromptTokens int
	Window       int
	Remaining    int
}

// NewBudget computes the budget for a prompt of promptTokens on model m.
func NewBudget(m model.ChatModel, promptTokens int) Budget {
	window := m.ContextWindow()
	return Budget{
		PromptTokens: promptTokens,
		Window:       window,
		Remaining:    window - promptTokens,
	}
}

// Tight reports whether the prompt leaves too little room for the letter.
func (b Budget) Tight() bool {
	return b.Remaining < ReservedCompletionTokens
}

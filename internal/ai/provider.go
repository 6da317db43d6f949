package ai

import (
	"context"

	"github.com/amishk599/coverforge/internal/model"
)

// LLMProvider sends a single prompt to a chat model and returns the raw text response.
type LLMProvider interface {
	Complete(ctx context.Context, req model.CompletionRequest) (string, error)
}

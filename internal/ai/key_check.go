package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/amishk599/coverforge/internal/model"
)

// KeyChecker verifies an API key by listing the models it can access.
type KeyChecker struct {
	baseURL    string
	httpClient *http.Client
}

// NewKeyChecker returns a checker for the API rooted at baseURL.
func NewKeyChecker(baseURL string, httpClient *http.Client) *KeyChecker {
	return &KeyChecker{baseURL: baseURL, httpClient: httpClient}
}

// KeyReport splits the supported chat models by whether the key can use them.
type KeyReport struct {
	Available []model.ChatModel
	Missing   []model.ChatModel
}

// Check lists models with apiKey. A rejected key is returned as *model.HTTPError.
func (c *KeyChecker) Check(ctx context.Context, apiKey string) (KeyReport, error) {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = c.baseURL
	cfg.HTTPClient = c.httpClient
	client := openai.NewClientWithConfig(cfg)

	list, err := client.ListModels(ctx)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return KeyReport{}, &model.HTTPError{StatusCode: apiErr.HTTPStatusCode, Err: err}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return KeyReport{}, &model.HTTPError{StatusCode: reqErr.HTTPStatusCode, Err: err}
		}
		return KeyReport{}, fmt.Errorf("list models: %w", err)
	}

	ids := make(map[string]bool, len(list.Models))
	for _, m := range list.Models {
		ids[m.ID] = true
	}

	var report KeyReport
	for _, m := range model.ChatModels {
		if ids[string(m)] {
			report.Available = append(report.Available, m)
		} else {
			report.Missing = append(report.Missing, m)
		}
	}
	return report, nil
}

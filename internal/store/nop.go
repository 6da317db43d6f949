package store

import (
	"context"
	"fmt"

	"github.com/amishk599/coverforge/internal/model"
)

// NopStore is used when history is disabled. Save discards the draft and
// nothing touches disk.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Save(context.Context, model.Draft) error { return nil }
func (s *NopStore) List(context.Context, int) ([]model.Draft, error) { return nil, nil }
func (s *NopStore) Get(_ context.Context, id string) (model.Draft, error) {
	return model.Draft{}, fmt.Errorf("draft %s: %w", id, model.ErrDraftNotFound)
}

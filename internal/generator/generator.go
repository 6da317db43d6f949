package generator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/coverforge/internal/ai"
	"github.com/amishk599/coverforge/internal/model"
)

// Generator performs exactly one completion call per Submission.
type Generator struct {
	provider ai.LLMProvider
	store    model.DraftStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewGenerator wires a generator. store receives every successful letter;
// pass store.NopStore to keep nothing.
func NewGenerator(provider ai.LLMProvider, store model.DraftStore, logger *slog.Logger) *Generator {
	return &Generator{
		provider: provider,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// Generate sends sub and returns its Result. Failures are logged here and
// reported through Result.Err; there is no retry.
func (g *Generator) Generate(ctx context.Context, sub Submission) Result {
	start := g.now()
	text, err := g.provider.Complete(ctx, sub.Request)
	if err != nil {
		args := []any{"seq", sub.Seq, "model", sub.Request.Model, "error", err}
		var httpErr *model.HTTPError
		if errors.As(err, &httpErr) {
			args = append(args, "status", httpErr.StatusCode)
		}
		g.logger.Error("generation failed", args...)
		return Result{Seq: sub.Seq, Err: err}
	}

	g.logger.Info("cover letter generated",
		"seq", sub.Seq,
		"model", sub.Request.Model,
		"chars", len(text),
		"duration", g.now().Sub(start).String(),
	)

	g.saveDraft(ctx, sub, text)
	return Result{Seq: sub.Seq, Text: text}
}

// GenerateForm runs one submission outside of a UI loop and returns the
// session after it resolved, plus the attempt's error. The session's letter
// holds FailureMessage whenever the error is non-nil.
func (g *Generator) GenerateForm(ctx context.Context, s Session) (Session, error) {
	sub := s.Submit()
	r := g.Generate(ctx, sub)
	s.Resolve(r)
	return s, r.Err
}

func (g *Generator) saveDraft(ctx context.Context, sub Submission, letter string) {
	d := model.Draft{
		ID:        uuid.NewString(),
		CreatedAt: g.now().UTC(),
		Model:     sub.Request.Model,
		Position:  sub.Position,
		Company:   sub.Company,
		Prompt:    sub.Request.Prompt,
		Letter:    letter,
	}
	if err := g.store.Save(ctx, d); err != nil {
		g.logger.Warn("saving draft failed", "error", err)
	}
}

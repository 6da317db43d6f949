package generator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amishk599/coverforge/internal/ai"
	"github.com/amishk599/coverforge/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockProvider returns a canned response and records its calls.
type mockProvider struct {
	response string
	err      error
	calls    []model.CompletionRequest
}

func (m *mockProvider) Complete(_ context.Context, req model.CompletionRequest) (string, error) {
	m.calls = append(m.calls, req)
	return m.response, m.err
}

// recordingStore keeps saved drafts in memory.
type recordingStore struct {
	saved []model.Draft
	err   error
}

func (s *recordingStore) Save(_ context.Context, d model.Draft) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, d)
	return nil
}

func (s *recordingStore) List(_ context.Context, _ int) ([]model.Draft, error) {
	return s.saved, nil
}

func (s *recordingStore) Get(_ context.Context, id string) (model.Draft, error) {
	for _, d := range s.saved {
		if d.ID == id {
			return d, nil
		}
	}
	return model.Draft{}, model.ErrDraftNotFound
}

func testForm() model.Application {
	return model.Application{
		Model:          model.GPT35Turbo,
		Position:       "Engineer",
		Company:        "Acme",
		JobDescription: "Build things",
		Experiences:    "5 years coding",
		APIKey:         "sk-secret",
	}
}

func TestGenerate_SuccessSavesDraft(t *testing.T) {
	provider := &mockProvider{response: "Dear Hiring Manager..."}
	store := &recordingStore{}
	g := NewGenerator(provider, store, discardLogger())

	s := NewSession(testForm())
	s, _ = g.GenerateForm(context.Background(), s)

	if s.Letter != "Dear Hiring Manager..." {
		t.Errorf("Letter = %q", s.Letter)
	}
	if s.View != ViewResult || s.Generating {
		t.Errorf("session = %+v", s)
	}
	if len(provider.calls) != 1 {
		t.Fatalf("provider calls = %d, want exactly 1", len(provider.calls))
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved drafts = %d, want 1", len(store.saved))
	}
	d := store.saved[0]
	if d.ID == "" || d.Letter != "Dear Hiring Manager..." || d.Company != "Acme" || d.Position != "Engineer" {
		t.Errorf("draft = %+v", d)
	}
	if strings.Contains(d.Prompt, "sk-secret") {
		t.Error("draft must not contain the API key")
	}
}

func TestGenerate_FailureDoesNotRetryOrSave(t *testing.T) {
	provider := &mockProvider{err: &model.HTTPError{StatusCode: 500}}
	store := &recordingStore{}
	g := NewGenerator(provider, store, discardLogger())

	s, _ := g.GenerateForm(context.Background(), NewSession(testForm()))

	if s.Letter != FailureMessage {
		t.Errorf("Letter = %q, want failure message", s.Letter)
	}
	if len(provider.calls) != 1 {
		t.Errorf("provider calls = %d, want 1 (no retry)", len(provider.calls))
	}
	if len(store.saved) != 0 {
		t.Errorf("saved drafts = %d, want 0", len(store.saved))
	}
}

func TestGenerateForm_ReportsAttemptError(t *testing.T) {
	httpErr := &model.HTTPError{StatusCode: 401}
	g := NewGenerator(&mockProvider{err: httpErr}, &recordingStore{}, discardLogger())

	s, err := g.GenerateForm(context.Background(), NewSession(testForm()))
	if !errors.Is(err, httpErr) {
		t.Errorf("err = %v, want the provider error", err)
	}
	if s.Letter != FailureMessage {
		t.Errorf("Letter = %q, want failure message", s.Letter)
	}
}

func TestGenerateForm_LetterMatchingFailureTextIsSuccess(t *testing.T) {
	g := NewGenerator(&mockProvider{response: FailureMessage}, &recordingStore{}, discardLogger())

	s, err := g.GenerateForm(context.Background(), NewSession(testForm()))
	if err != nil {
		t.Errorf("err = %v, want nil for a completed request", err)
	}
	if s.Letter != FailureMessage {
		t.Errorf("Letter = %q", s.Letter)
	}
}

func TestGenerate_StoreErrorKeepsLetter(t *testing.T) {
	provider := &mockProvider{response: "letter"}
	store := &recordingStore{err: errors.New("disk full")}
	g := NewGenerator(provider, store, discardLogger())

	s, _ := g.GenerateForm(context.Background(), NewSession(testForm()))
	if s.Letter != "letter" {
		t.Errorf("Letter = %q, want generated letter despite store error", s.Letter)
	}
}

func TestGenerate_ResultCarriesSeq(t *testing.T) {
	g := NewGenerator(&mockProvider{response: "x"}, &recordingStore{}, discardLogger())
	s := NewSession(testForm())
	s.Submit()
	sub := s.Submit()

	r := g.Generate(context.Background(), sub)
	if r.Seq != sub.Seq || r.Seq != s.Latest() {
		t.Errorf("Seq = %d, want %d", r.Seq, sub.Seq)
	}
}

func TestGenerate_Unauthorized_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	g := NewGenerator(ai.NewOpenAIProvider(srv.URL, srv.Client()), &recordingStore{}, discardLogger())
	s, _ := g.GenerateForm(context.Background(), NewSession(testForm()))

	if !strings.HasPrefix(s.Letter, "Oops... There was an issue generating your cover letter.") {
		t.Errorf("Letter = %q", s.Letter)
	}
}

func TestGenerate_Success_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Dear Hiring Manager..."}}]}`))
	}))
	defer srv.Close()

	g := NewGenerator(ai.NewOpenAIProvider(srv.URL, srv.Client()), &recordingStore{}, discardLogger())
	s := NewSession(testForm())
	s.ShowPrompt()
	s, _ = g.GenerateForm(context.Background(), s)

	if s.Letter != "Dear Hiring Manager..." {
		t.Errorf("Letter = %q", s.Letter)
	}
	if s.View != ViewResult {
		t.Errorf("View = %v, want result", s.View)
	}
}

// Package generator owns the cover letter form state and the submission flow.
package generator

import (
	"github.com/amishk599/coverforge/internal/model"
	"github.com/amishk599/coverforge/internal/prompt"
)

// FailureMessage replaces the letter whenever a generation attempt fails.
const FailureMessage = "Oops... There was an issue generating your cover letter. Check your API key and try again!"

// View selects which of the two display panels is shown.
type View int

const (
	ViewResult View = iota // generated letter; the initial view
	ViewPrompt             // read-only prompt preview
)

func (v View) String() string {
	if v == ViewPrompt {
		return "prompt"
	}
	return "result"
}

// Submission is one generation attempt. Seq identifies it among overlapping attempts.
type Submission struct {
	Seq      uint64
	Request  model.CompletionRequest
	Position string
	Company  string
}

// Result is the outcome of a Submission. Err is nil on success.
type Result struct {
	Seq  uint64
	Text string
	Err  error
}

// Session is the form state plus display state. It is a plain value owned by
// the presentation layer; it does no I/O.
type Session struct {
	Form       model.Application
	View       View
	Generating bool
	Letter     string // empty until the first attempt resolves
	HasLetter  bool
	seq        uint64
}

// NewSession returns a session for form showing the result view.
func NewSession(form model.Application) Session {
	if form.Model == "" {
		form.Model = model.DefaultChatModel
	}
	return Session{Form: form, View: ViewResult}
}

// Prompt builds the prompt for the current form.
func (s *Session) Prompt() string {
	return prompt.Build(s.Form)
}

// ShowPrompt switches to the prompt view.
func (s *Session) ShowPrompt() { s.View = ViewPrompt }

// ShowResult switches to the result view.
func (s *Session) ShowResult() { s.View = ViewResult }

// Submit starts a new attempt: forces the result view, marks the session busy
// and returns the request to send. Any attempt still in flight becomes stale.
func (s *Session) Submit() Submission {
	s.View = ViewResult
	s.Generating = true
	s.seq++
	return Submission{
		Seq: s.seq,
		Request: model.CompletionRequest{
			Model:  s.Form.Model,
			Prompt: s.Prompt(),
			APIKey: s.Form.APIKey,
		},
		Position: s.Form.Position,
		Company:  s.Form.Company,
	}
}

// Resolve applies r if it belongs to the latest submission and reports whether
// it was applied. A failed attempt stores FailureMessage.
func (s *Session) Resolve(r Result) bool {
	if r.Seq != s.seq {
		return false
	}
	s.Generating = false
	s.HasLetter = true
	if r.Err != nil {
		s.Letter = FailureMessage
		return true
	}
	s.Letter = r.Text
	return true
}

// Latest returns the sequence number of the most recent submission.
func (s *Session) Latest() uint64 {
	return s.seq
}

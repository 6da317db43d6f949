// Package prompt assembles the cover letter prompt from the form fields.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/amishk599/coverforge/internal/model"
)

// Target length requested from the model.
const (
	MinWords = 350
	MaxWords = 450
)

// blankPlaceholder stands in for an empty position or company.
const blankPlaceholder = `""`

//go:embed prompts/cover_letter.tmpl
var coverLetterPromptRaw string

// CoverLetterTemplate is parsed once at package init and reused on every Build.
var CoverLetterTemplate = template.Must(template.New("cover_letter").Parse(coverLetterPromptRaw))

type example struct {
	Number int // slot number on the form, 1-based
	Text   string
}

type promptData struct {
	MinWords       int
	MaxWords       int
	Position       string
	Company        string
	JobDescription string
	Experiences    string
	Examples       []example
}

// Build renders the prompt for app. The output depends only on the form fields.
func Build(app model.Application) string {
	var b strings.Builder
	if err := CoverLetterTemplate.Execute(&b, newPromptData(app)); err != nil {
		panic(fmt.Sprintf("render cover letter prompt: %v", err))
	}
	return b.String()
}

func newPromptData(app model.Application) promptData {
	data := promptData{
		MinWords:       MinWords,
		MaxWords:       MaxWords,
		Position:       orPlaceholder(app.Position),
		Company:        orPlaceholder(app.Company),
		JobDescription: app.JobDescription,
		Experiences:    app.Experiences,
	}
	for i, text := range app.Examples {
		if text == "" {
			continue
		}
		data.Examples = append(data.Examples, example{Number: i + 1, Text: text})
	}
	return data
}

// orPlaceholder substitutes the empty-quote marker for an empty value.
// Whitespace is user input and is kept as typed.
func orPlaceholder(s string) string {
	if s == "" {
		return blankPlaceholder
	}
	return s
}

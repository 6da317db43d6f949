package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/coverforge/internal/config"
	"github.com/amishk599/coverforge/internal/model"
)

// applicationFlags are the form fields accepted by headless commands. Unset
// flags fall back to the config profile.
type applicationFlags struct {
	model              string
	position           string
	company            string
	jobDescription     string
	jobDescriptionFile string
	experiences        string
	experiencesFile    string
	exampleFiles       []string
	apiKey             string
}

func (f *applicationFlags) bind(cmd *cobra.Command, withKey bool) {
	fl := cmd.Flags()
	fl.StringVarP(&f.model, "model", "m", "", "chat model (gpt-3.5-turbo, gpt-3.5-turbo-16k, gpt-4)")
	fl.StringVar(&f.position, "position", "", "job position")
	fl.StringVar(&f.company, "company", "", "company name")
	fl.StringVar(&f.jobDescription, "job-description", "", "job description text")
	fl.StringVar(&f.jobDescriptionFile, "job-description-file", "", "read the job description from a file")
	fl.StringVar(&f.experiences, "experiences", "", "your experiences")
	fl.StringVar(&f.experiencesFile, "experiences-file", "", "read your experiences from a file")
	fl.StringArrayVar(&f.exampleFiles, "example-file", nil, "previous cover letter used as a reference (repeatable, at most 3)")
	if withKey {
		fl.StringVar(&f.apiKey, "api-key", "", "OpenAI API key (default: config openai.api_key or OPENAI_API_KEY)")
	}
}

// application merges the flags over the config profile.
func (f *applicationFlags) application(cfg *config.Config) (model.Application, error) {
	app := cfg.Application()
	app.APIKey = resolveAPIKey(f.apiKey, cfg)

	if f.model != "" {
		m, err := model.ParseChatModel(f.model)
		if err != nil {
			return app, err
		}
		app.Model = m
	}
	if f.position != "" {
		app.Position = f.position
	}
	if f.company != "" {
		app.Company = f.company
	}

	var err error
	if app.JobDescription, err = textOrFile(f.jobDescription, f.jobDescriptionFile, app.JobDescription); err != nil {
		return app, err
	}
	if app.Experiences, err = textOrFile(f.experiences, f.experiencesFile, app.Experiences); err != nil {
		return app, err
	}

	if len(f.exampleFiles) > model.MaxExamples {
		return app, fmt.Errorf("at most %d --example-file values allowed, got %d", model.MaxExamples, len(f.exampleFiles))
	}
	if len(f.exampleFiles) > 0 {
		app.Examples = [model.MaxExamples]string{}
		for i, path := range f.exampleFiles {
			data, err := os.ReadFile(path)
			if err != nil {
				return app, fmt.Errorf("read example %d: %w", i+1, err)
			}
			app.Examples[i] = string(data)
		}
	}
	return app, nil
}

func textOrFile(text, path, fallback string) (string, error) {
	if text != "" && path != "" {
		return "", fmt.Errorf("use either the text flag or the file flag, not both (file %s)", path)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	}
	if text != "" {
		return text, nil
	}
	return fallback, nil
}

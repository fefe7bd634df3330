package ui

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"nameit/provider"
	"nameit/session"
)

// PresetPrompter answers from command-line flags and falls back to Next
// for anything that was not given.
type PresetPrompter struct {
	Provider string
	API      string
	// APISet distinguishes "--api ''" (use the default) from no flag.
	APISet   bool
	Model    string
	Question string
	// AssumeYes answers every confirmation with yes.
	AssumeYes bool

	Next session.Prompter
}

func (p *PresetPrompter) SelectProvider(names []string) (string, error) {
	if p.Provider == "" {
		return p.Next.SelectProvider(names)
	}

	for _, name := range names {
		if strings.EqualFold(name, p.Provider) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q (available: %s)", provider.ErrUnknownProvider, p.Provider, strings.Join(names, ", "))
}

func (p *PresetPrompter) InputAPIURL(defaultURL string) (string, error) {
	if p.APISet {
		return p.API, nil
	}
	return p.Next.InputAPIURL(defaultURL)
}

func (p *PresetPrompter) SelectModel(models []string) (string, error) {
	if p.Model == "" {
		return p.Next.SelectModel(models)
	}
	return MatchModel(p.Model, models)
}

func (p *PresetPrompter) InputQuestion() (string, error) {
	if strings.TrimSpace(p.Question) != "" {
		return p.Question, nil
	}
	return p.Next.InputQuestion()
}

func (p *PresetPrompter) Confirm(message string) (bool, error) {
	if p.AssumeYes {
		return true, nil
	}
	return p.Next.Confirm(message)
}

func (p *PresetPrompter) Warn(message string)  { p.Next.Warn(message) }
func (p *PresetPrompter) Error(message string) { p.Next.Error(message) }

// MatchModel picks the model the user meant by query. An exact name wins,
// then a name whose tag-less form equals query ("llama3" for
// "llama3:latest"), then the best fuzzy match.
func MatchModel(query string, models []string) (string, error) {
	for _, m := range models {
		if m == query {
			return m, nil
		}
	}
	for _, m := range models {
		if provider.NormalizeModel(m) == query {
			return m, nil
		}
	}

	matches := fuzzy.Find(query, models)
	if len(matches) == 0 {
		return "", fmt.Errorf("no model matches %q (available: %s)", query, strings.Join(models, ", "))
	}
	return matches[0].Str, nil
}

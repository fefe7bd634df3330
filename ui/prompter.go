package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	"nameit/session"
)

// FormPrompter asks everything interactively with huh forms and prints
// messages to Out.
type FormPrompter struct {
	Out io.Writer
}

func NewFormPrompter(out io.Writer) *FormPrompter {
	return &FormPrompter{Out: out}
}

func runForm(fields ...huh.Field) error {
	err := huh.NewForm(huh.NewGroup(fields...)).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return session.ErrCancelled
	}
	return err
}

func (p *FormPrompter) SelectProvider(names []string) (string, error) {
	var selected string

	err := runForm(
		huh.NewSelect[string]().
			Title("Select provider").
			Options(huh.NewOptions(names...)...).
			Value(&selected),
	)
	if err != nil {
		return "", err
	}

	return selected, nil
}

func (p *FormPrompter) InputAPIURL(defaultURL string) (string, error) {
	var apiURL string

	err := runForm(
		huh.NewInput().
			Title("Enter API Url").
			Description("Leave empty to use " + defaultURL).
			Placeholder(defaultURL).
			Value(&apiURL),
	)
	if err != nil {
		return "", err
	}

	return apiURL, nil
}

func (p *FormPrompter) SelectModel(models []string) (string, error) {
	var selected string

	err := runForm(
		huh.NewSelect[string]().
			Title("Select model").
			Options(huh.NewOptions(models...)...).
			Filtering(len(models) > 10).
			Value(&selected),
	)
	if err != nil {
		return "", err
	}

	return selected, nil
}

func (p *FormPrompter) InputQuestion() (string, error) {
	var question string

	err := runForm(
		huh.NewInput().
			Title("Your question about the name (without specifying anything about the project or language).").
			Placeholder("Ask here").
			Value(&question),
	)
	if err != nil {
		return "", err
	}

	return question, nil
}

func (p *FormPrompter) Confirm(message string) (bool, error) {
	var yes bool

	err := runForm(
		huh.NewConfirm().
			Title(message).
			Affirmative("Yes").
			Negative("No").
			Value(&yes),
	)
	if err != nil {
		return false, err
	}

	return yes, nil
}

func (p *FormPrompter) Warn(message string) {
	fmt.Fprintln(p.Out, FormatWarning(message))
}

func (p *FormPrompter) Error(message string) {
	fmt.Fprintln(p.Out, FormatError(message))
}

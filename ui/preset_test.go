package ui

import (
	"errors"
	"testing"

	"nameit/provider"
)

// recordingPrompter answers fixed values and records what was asked.
type recordingPrompter struct {
	asked []string
}

func (r *recordingPrompter) SelectProvider(names []string) (string, error) {
	r.asked = append(r.asked, "provider")
	return names[0], nil
}

func (r *recordingPrompter) InputAPIURL(defaultURL string) (string, error) {
	r.asked = append(r.asked, "api")
	return "http://interactive", nil
}

func (r *recordingPrompter) SelectModel(models []string) (string, error) {
	r.asked = append(r.asked, "model")
	return models[len(models)-1], nil
}

func (r *recordingPrompter) InputQuestion() (string, error) {
	r.asked = append(r.asked, "question")
	return "interactive question", nil
}

func (r *recordingPrompter) Confirm(message string) (bool, error) {
	r.asked = append(r.asked, "confirm")
	return false, nil
}

func (r *recordingPrompter) Warn(message string)  {}
func (r *recordingPrompter) Error(message string) {}

func TestMatchModel(t *testing.T) {
	models := []string{"llama3:latest", "llama3.1:8b", "qwen2.5-coder:7b", "mistral:latest"}

	tests := []struct {
		name    string
		query   string
		want    string
		wantErr bool
	}{
		{"exact", "llama3.1:8b", "llama3.1:8b", false},
		{"without tag", "llama3", "llama3:latest", false},
		{"fuzzy", "qwen", "qwen2.5-coder:7b", false},
		{"no match", "zzz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchModel(tt.query, models)
			if tt.wantErr {
				if err == nil {
					t.Errorf("MatchModel(%q) = %q, want error", tt.query, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("MatchModel(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestPresetPrompter_UsesPresets(t *testing.T) {
	next := &recordingPrompter{}
	p := &PresetPrompter{
		Provider:  "ollama",
		API:       "",
		APISet:    true,
		Model:     "mistral",
		Question:  "name for a retry counter",
		AssumeYes: true,
		Next:      next,
	}

	if got, err := p.SelectProvider([]string{"Ollama"}); err != nil || got != "Ollama" {
		t.Errorf("SelectProvider() = %q, %v; want Ollama", got, err)
	}
	if got, err := p.InputAPIURL("http://default"); err != nil || got != "" {
		t.Errorf("InputAPIURL() = %q, %v; want empty", got, err)
	}
	if got, err := p.SelectModel([]string{"llama3:latest", "mistral:latest"}); err != nil || got != "mistral:latest" {
		t.Errorf("SelectModel() = %q, %v; want mistral:latest", got, err)
	}
	if got, err := p.InputQuestion(); err != nil || got != "name for a retry counter" {
		t.Errorf("InputQuestion() = %q, %v", got, err)
	}
	if yes, err := p.Confirm("run setup?"); err != nil || !yes {
		t.Errorf("Confirm() = %v, %v; want true", yes, err)
	}

	if len(next.asked) != 0 {
		t.Errorf("fell through to the interactive prompter for %v", next.asked)
	}
}

func TestPresetPrompter_FallsThrough(t *testing.T) {
	next := &recordingPrompter{}
	p := &PresetPrompter{Question: "   ", Next: next}

	p.SelectProvider([]string{"Ollama"})
	if got, _ := p.InputAPIURL("http://default"); got != "http://interactive" {
		t.Errorf("InputAPIURL() = %q, want the interactive answer", got)
	}
	p.SelectModel([]string{"a", "b"})
	if got, _ := p.InputQuestion(); got != "interactive question" {
		t.Errorf("InputQuestion() = %q, want the interactive answer", got)
	}
	p.Confirm("run setup?")

	want := []string{"provider", "api", "model", "question", "confirm"}
	if len(next.asked) != len(want) {
		t.Fatalf("asked = %v, want %v", next.asked, want)
	}
	for i := range want {
		if next.asked[i] != want[i] {
			t.Errorf("asked[%d] = %q, want %q", i, next.asked[i], want[i])
		}
	}
}

func TestPresetPrompter_UnknownProvider(t *testing.T) {
	p := &PresetPrompter{Provider: "openai", Next: &recordingPrompter{}}

	_, err := p.SelectProvider([]string{"Ollama"})
	if !errors.Is(err, provider.ErrUnknownProvider) {
		t.Errorf("SelectProvider() error = %v, want ErrUnknownProvider", err)
	}
}

package provider

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ollama/ollama/api"

	"nameit/config"
)

// OllamaProvider talks to a local Ollama server. It inherits Setup from
// BaseProvider and relies on the handle built there.
//
// Endpoints are resolved relative to Config.API, which for Ollama includes
// the /api prefix (e.g. "http://localhost:11434/api"):
//   - GET  <base>/      liveness probe
//   - GET  <base>/tags  model listing
//   - POST <base>/chat  single-turn, non-streaming question
type OllamaProvider struct {
	*BaseProvider
}

// NewOllamaProvider creates an Ollama provider. No network traffic happens
// until Setup is called.
func NewOllamaProvider(cfg Config) *OllamaProvider {
	return &OllamaProvider{BaseProvider: NewBaseProvider(cfg)}
}

// chatRequest is the exact body the chat endpoint receives.
type chatRequest struct {
	Model    string        `json:"model"`
	Stream   bool          `json:"stream"`
	Messages []api.Message `json:"messages"`
}

type chatResponse struct {
	Message *api.Message `json:"message"`
}

var errNoHandle = errors.New("setup has not been run")

// ListAvailableModels implements Provider.ListAvailableModels.
//
// Returns the name of every model in the GET <base>/tags response, in the
// order the server lists them. Any failure yields an empty slice.
func (p *OllamaProvider) ListAvailableModels(ctx context.Context) []string {
	h := p.Handle()
	if h == nil {
		config.DebugLog.Debug().Err(errNoHandle).Msg("list models skipped")
		return []string{}
	}

	var resp api.ListResponse
	if err := h.getJSON(ctx, "tags", &resp); err != nil {
		config.DebugLog.Error().Err(err).Str("api", h.BaseURL()).Msg("list models failed")
		return []string{}
	}

	models := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, m.Name)
	}

	config.DebugLog.Debug().Int("count", len(models)).Str("api", h.BaseURL()).Msg("listed models")
	return models
}

// AskQuestion implements Provider.AskQuestion.
//
// The model's variant tag is dropped before sending ("llama3:8b" is sent as
// "llama3") and fenced answers are reduced to the code inside the fence with
// ExtractCode. The question itself is only used for diagnostics; the prompt
// already embeds it.
func (p *OllamaProvider) AskQuestion(ctx context.Context, prompt, question, model string, onResult func(string)) bool {
	requestID := uuid.New().String()
	log := config.DebugLog.With().
		Str("request_id", requestID).
		Str("model", model).
		Logger()

	h := p.Handle()
	if h == nil {
		log.Debug().Err(errNoHandle).Msg("ask skipped")
		return false
	}

	req := chatRequest{
		Model:  NormalizeModel(model),
		Stream: false,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
	}

	log.Debug().Str("question", question).Str("api", h.BaseURL()).Msg("asking")
	start := time.Now()

	var resp chatResponse
	if err := h.postJSON(ctx, "chat", req, &resp); err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("ask failed")
		return false
	}
	if resp.Message == nil {
		log.Error().Msg("ask failed: response has no message")
		return false
	}

	answer := ExtractCode(resp.Message.Content)
	log.Debug().Dur("elapsed", time.Since(start)).Int("answer_len", len(answer)).Msg("answer received")

	onResult(answer)
	return true
}

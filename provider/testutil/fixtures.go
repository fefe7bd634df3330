package testutil

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RecordedRequest is what the fake server saw for one request.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]any
}

// OllamaServer is a fake local model server speaking the tags/chat protocol
// under the /api prefix.
type OllamaServer struct {
	*httptest.Server

	mu       sync.Mutex
	models   []string
	answer   string
	status   int
	requests []RecordedRequest
}

// NewOllamaServer starts a fake server that lists models and answers every
// chat with answer. It is closed when the test ends.
func NewOllamaServer(t testing.TB, answer string, models ...string) *OllamaServer {
	t.Helper()

	s := &OllamaServer{
		models: models,
		answer: answer,
		status: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		w.WriteHeader(s.currentStatus())
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		if status := s.currentStatus(); status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		s.mu.Lock()
		list := make([]map[string]any, 0, len(s.models))
		for _, m := range s.models {
			list = append(list, map[string]any{"name": m, "model": m, "size": 1000})
		}
		s.mu.Unlock()
		writeJSON(w, map[string]any{"models": list})
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		if status := s.currentStatus(); status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		s.mu.Lock()
		answer := s.answer
		s.mu.Unlock()
		writeJSON(w, map[string]any{
			"model":   "fake",
			"message": map[string]any{"role": "assistant", "content": answer},
			"done":    true,
		})
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// APIURL returns the base URL a provider should be configured with.
func (s *OllamaServer) APIURL() string {
	return s.URL + "/api"
}

// SetStatus makes every endpoint answer with status and no body.
func (s *OllamaServer) SetStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Requests returns a copy of the recorded requests.
func (s *OllamaServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request for path, if any.
func (s *OllamaServer) LastRequest(path string) (RecordedRequest, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return RecordedRequest{}, false
}

func (s *OllamaServer) currentStatus() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *OllamaServer) record(r *http.Request) {
	rec := RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
	}
	if data, err := io.ReadAll(r.Body); err == nil && len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// RefusedURL returns a base URL on which nothing is listening, so
// connections to it are refused.
func RefusedURL(t testing.TB) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	return "http://" + addr + "/api"
}

// FencedAnswer wraps code in a markdown fence tagged with lang.
func FencedAnswer(lang, code string) string {
	return "```" + lang + "\n" + code + "\n```"
}

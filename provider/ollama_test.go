package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nameit/provider"
	"nameit/provider/testutil"
)

// TestOllamaProviderImplementsInterface is a compile-time check that OllamaProvider
// implements the Provider interface.
func TestOllamaProviderImplementsInterface(t *testing.T) {
	var _ provider.Provider = (*provider.OllamaProvider)(nil)
	var _ provider.Provider = (*provider.BaseProvider)(nil)
}

func newServer(t *testing.T, h http.Handler) string {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL
}

func newOllama(t *testing.T, cfg provider.Config) *provider.OllamaProvider {
	t.Helper()
	if cfg.ProviderName == "" {
		cfg.ProviderName = "Ollama"
	}
	return provider.NewOllamaProvider(cfg)
}

func TestOllamaSetup_AttachesAPIKeyHeader(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		key        string
		wantHeader bool
	}{
		{"both set", "X-Api-Key", "secret", true},
		{"header only", "X-Api-Key", "", false},
		{"key only", "", "secret", false},
		{"neither", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.NewOllamaServer(t, "", "llama3:8b")
			p := newOllama(t, provider.Config{
				API:          srv.APIURL(),
				APIKeyHeader: tt.header,
				APIKey:       tt.key,
			})

			if !p.Setup(context.Background()) {
				t.Fatal("Setup() = false, want true")
			}
			p.ListAvailableModels(context.Background())

			for _, req := range srv.Requests() {
				values := req.Header.Values("X-Api-Key")
				if tt.wantHeader {
					if len(values) != 1 || values[0] != tt.key {
						t.Errorf("%s %s: X-Api-Key = %v, want exactly [%s]", req.Method, req.Path, values, tt.key)
					}
				} else if len(values) != 0 {
					t.Errorf("%s %s: unexpected X-Api-Key %v", req.Method, req.Path, values)
				}
			}
		})
	}
}

func TestOllamaSetup_Reachability(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusUnauthorized, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := testutil.NewOllamaServer(t, "")
			srv.SetStatus(status)

			p := newOllama(t, provider.Config{API: srv.APIURL()})
			if !p.Setup(context.Background()) {
				t.Errorf("Setup() = false for HTTP %d, want true", status)
			}

			req, ok := srv.LastRequest("/api/")
			if !ok {
				t.Fatal("probe did not reach GET <base>/")
			}
			if req.Method != http.MethodGet {
				t.Errorf("probe method = %s, want GET", req.Method)
			}
		})
	}

	t.Run("connection refused", func(t *testing.T) {
		p := newOllama(t, provider.Config{API: testutil.RefusedURL(t)})
		if p.Setup(context.Background()) {
			t.Error("Setup() = true for refused connection, want false")
		}
		if p.Handle() == nil {
			t.Error("Setup() should still install a handle")
		}
	})
}

func TestProbeClassifiesRefusal(t *testing.T) {
	h := provider.NewHandle(provider.Config{API: testutil.RefusedURL(t)})
	reach, err := h.Probe(context.Background())
	if reach != provider.Refused {
		t.Errorf("Probe() = %v, want refused", reach)
	}
	if err == nil {
		t.Error("Probe() error = nil, want error")
	}

	h = provider.NewHandle(provider.Config{API: "://not a url"})
	if reach, _ := h.Probe(context.Background()); reach != provider.Failed {
		t.Errorf("Probe() on malformed URL = %v, want failed", reach)
	}
}

func TestOllamaSetup_ExpiredContext(t *testing.T) {
	srv := testutil.NewOllamaServer(t, "")

	p := newOllama(t, provider.Config{API: srv.APIURL()})
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	if p.Setup(ctx) {
		t.Error("Setup() with an expired context = true, want false")
	}
}

// TestOllamaConfigTimeout checks that Config.Timeout bounds every request on
// the handle, independent of the caller's context.
func TestOllamaConfigTimeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.WriteHeader(http.StatusOK)
			return
		}
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.Write([]byte(`{"models":[{"name":"llama3"}],"message":{"role":"assistant","content":"late"}}`))
	})
	base := newServer(t, mux)

	p := newOllama(t, provider.Config{API: base, Timeout: 50})
	if !p.Setup(context.Background()) {
		t.Fatal("Setup() = false against a fast liveness endpoint")
	}

	start := time.Now()
	if got := p.ListAvailableModels(context.Background()); got == nil || len(got) != 0 {
		t.Errorf("ListAvailableModels() past the timeout = %#v, want empty non-nil", got)
	}

	called := false
	if p.AskQuestion(context.Background(), "p", "q", "llama3", func(string) { called = true }) {
		t.Error("AskQuestion() past the timeout = true, want false")
	}
	if called {
		t.Error("AskQuestion() invoked the callback after timing out")
	}

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("requests took %v, the 50ms timeout was not applied", elapsed)
	}
}

func TestOllamaListAvailableModels(t *testing.T) {
	srv := testutil.NewOllamaServer(t, "", "llama3:8b", "qwen2.5-coder:7b", "mistral:latest")
	p := newOllama(t, provider.Config{API: srv.APIURL()})

	if got := p.ListAvailableModels(context.Background()); len(got) != 0 {
		t.Errorf("ListAvailableModels() before Setup = %v, want empty", got)
	}

	if !p.Setup(context.Background()) {
		t.Fatal("Setup() = false")
	}

	got := p.ListAvailableModels(context.Background())
	want := []string{"llama3:8b", "qwen2.5-coder:7b", "mistral:latest"}
	if len(got) != len(want) {
		t.Fatalf("ListAvailableModels() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("model[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	req, ok := srv.LastRequest("/api/tags")
	if !ok || req.Method != http.MethodGet {
		t.Errorf("expected GET /api/tags, got %+v", req)
	}
}

func TestOllamaListAvailableModels_Failures(t *testing.T) {
	srv := testutil.NewOllamaServer(t, "", "llama3")
	p := newOllama(t, provider.Config{API: srv.APIURL()})
	p.Setup(context.Background())

	srv.SetStatus(http.StatusInternalServerError)
	if got := p.ListAvailableModels(context.Background()); got == nil || len(got) != 0 {
		t.Errorf("ListAvailableModels() on 500 = %#v, want empty non-nil", got)
	}

	refused := newOllama(t, provider.Config{API: testutil.RefusedURL(t)})
	refused.Setup(context.Background())
	if got := refused.ListAvailableModels(context.Background()); len(got) != 0 {
		t.Errorf("ListAvailableModels() on refused = %v, want empty", got)
	}
}

func TestOllamaAskQuestion(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{"fenced answer", "```js\ncode\n```", "code"},
		{"plain answer", "plain text", "plain text"},
		{"fixture fence", testutil.FencedAnswer("go", "func loadUserProfile() {}"), "func loadUserProfile() {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.NewOllamaServer(t, tt.answer)
			p := newOllama(t, provider.Config{API: srv.APIURL()})
			if !p.Setup(context.Background()) {
				t.Fatal("Setup() = false")
			}

			var calls int
			var got string
			ok := p.AskQuestion(context.Background(), "the prompt", "the question", "llama3:8b", func(s string) {
				calls++
				got = s
			})

			if !ok {
				t.Fatal("AskQuestion() = false, want true")
			}
			if calls != 1 {
				t.Errorf("callback called %d times, want 1", calls)
			}
			if got != tt.want {
				t.Errorf("callback got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOllamaAskQuestion_RequestBody(t *testing.T) {
	srv := testutil.NewOllamaServer(t, "ok")
	p := newOllama(t, provider.Config{API: srv.APIURL()})
	p.Setup(context.Background())

	p.AskQuestion(context.Background(), "name a counter", "counter?", "llama3:8b", func(string) {})

	req, ok := srv.LastRequest("/api/chat")
	if !ok {
		t.Fatal("no request to /api/chat")
	}
	if req.Method != http.MethodPost {
		t.Errorf("method = %s, want POST", req.Method)
	}
	if req.Body["model"] != "llama3" {
		t.Errorf("model = %v, want llama3", req.Body["model"])
	}
	if req.Body["stream"] != false {
		t.Errorf("stream = %v, want false", req.Body["stream"])
	}
	if len(req.Body) != 3 {
		t.Errorf("body has %d fields, want model/stream/messages: %v", len(req.Body), req.Body)
	}

	messages, ok := req.Body["messages"].([]any)
	if !ok || len(messages) != 1 {
		t.Fatalf("messages = %#v, want one message", req.Body["messages"])
	}
	msg := messages[0].(map[string]any)
	if msg["role"] != "user" || msg["content"] != "name a counter" {
		t.Errorf("message = %v, want user/name a counter", msg)
	}
}

func TestOllamaAskQuestion_Failures(t *testing.T) {
	fail := func(t *testing.T, p provider.Provider) {
		t.Helper()
		called := false
		if p.AskQuestion(context.Background(), "p", "q", "m", func(string) { called = true }) {
			t.Error("AskQuestion() = true, want false")
		}
		if called {
			t.Error("callback invoked on failure")
		}
	}

	t.Run("before setup", func(t *testing.T) {
		srv := testutil.NewOllamaServer(t, "x")
		fail(t, newOllama(t, provider.Config{API: srv.APIURL()}))
		if _, ok := srv.LastRequest("/api/chat"); ok {
			t.Error("request sent without a handle")
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		p := newOllama(t, provider.Config{API: testutil.RefusedURL(t)})
		p.Setup(context.Background())
		fail(t, p)
	})

	t.Run("server error", func(t *testing.T) {
		srv := testutil.NewOllamaServer(t, "x")
		p := newOllama(t, provider.Config{API: srv.APIURL()})
		p.Setup(context.Background())
		srv.SetStatus(http.StatusNotFound)
		fail(t, p)
	})

	t.Run("malformed body", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"message":`))
		})
		srv := newServer(t, mux)
		p := newOllama(t, provider.Config{API: srv})
		p.Setup(context.Background())
		fail(t, p)
	})

	t.Run("missing message", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"done":true}`))
		})
		srv := newServer(t, mux)
		p := newOllama(t, provider.Config{API: srv})
		p.Setup(context.Background())
		fail(t, p)
	})
}

func TestOllamaSetup_Idempotent(t *testing.T) {
	srv := testutil.NewOllamaServer(t, "```go\nuserID\n```", "llama3")
	p := newOllama(t, provider.Config{API: srv.APIURL()})

	if !p.Setup(context.Background()) {
		t.Fatal("first Setup() = false")
	}
	first := p.Handle()
	firstModels := p.ListAvailableModels(context.Background())

	if !p.Setup(context.Background()) {
		t.Fatal("second Setup() = false")
	}
	second := p.Handle()
	secondModels := p.ListAvailableModels(context.Background())

	if first == second {
		t.Error("Setup() reused the previous handle")
	}
	if len(firstModels) != len(secondModels) || firstModels[0] != secondModels[0] {
		t.Errorf("models differ between setups: %v vs %v", firstModels, secondModels)
	}

	var got string
	if !p.AskQuestion(context.Background(), "p", "q", "llama3", func(s string) { got = s }) || got != "userID" {
		t.Errorf("AskQuestion() after re-setup got %q", got)
	}
}

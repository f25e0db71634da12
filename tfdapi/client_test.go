package tfdapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mmdatafocus/tfd_bot/config"
	"github.com/sirupsen/logrus"
)

type recordedRequest struct {
	Path     string
	RawQuery string
	Query    map[string][]string
	APIKey   string
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]string
	status   map[string]int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Query:    r.URL.Query(),
		APIKey:   r.Header.Get(config.DefaultAPIKeyHeader),
	})
	f.mu.Unlock()

	if code, ok := f.status[r.URL.Path]; ok {
		w.WriteHeader(code)
		_, _ = io.WriteString(w, `{"error":{"name":"OPENAPI00004"}}`)
		return
	}
	body, ok := f.routes[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

func (f *fakeAPI) calls() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := NewClient(config.Settings{
		APIKey:      "test-key",
		APIBaseURL:  srv.URL,
		HTTPTimeout: 5 * time.Second,
	}, quietLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(config.Settings{}, quietLogger()); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}

func TestClient_NonOKIsFailure(t *testing.T) {
	api := &fakeAPI{status: map[string]int{"/tfd/v1/user/weapon": http.StatusBadRequest}}
	c := newTestClient(t, api)

	if _, ok := c.FetchWeapons(context.Background(), "ouid-1"); ok {
		t.Fatalf("expected failure on 400")
	}
}

func TestClient_MalformedBodyIsFailure(t *testing.T) {
	api := &fakeAPI{routes: map[string]string{"/tfd/v1/user/reactor": `{"reactor_id": `}}
	c := newTestClient(t, api)

	if _, ok := c.FetchReactor(context.Background(), "ouid-1"); ok {
		t.Fatalf("expected failure on malformed body")
	}
}

func TestClient_SendsAPIKeyAndLanguage(t *testing.T) {
	api := &fakeAPI{routes: map[string]string{
		"/tfd/v1/user/descendant":         `{"descendant_id": "101000001", "descendant_level": 40}`,
		"/tfd/v1/user/weapon":             `{"weapon": []}`,
		"/tfd/v1/user/reactor":            `{"reactor_id": "245000001"}`,
		"/tfd/v1/user/external-component": `{"external_component": []}`,
	}}
	c := newTestClient(t, api)
	ctx := context.Background()

	desc, ok := c.FetchDescendant(ctx, "ouid-1")
	if !ok || desc.DescendantID != "101000001" || desc.Level.String() != "40" {
		t.Fatalf("unexpected descendant %+v ok=%v", desc, ok)
	}
	if _, ok := c.FetchWeapons(ctx, "ouid-1"); !ok {
		t.Fatalf("weapons fetch failed")
	}
	if _, ok := c.FetchReactor(ctx, "ouid-1"); !ok {
		t.Fatalf("reactor fetch failed")
	}
	if _, ok := c.FetchExternalComponents(ctx, "ouid-1"); !ok {
		t.Fatalf("external component fetch failed")
	}

	for _, r := range api.calls() {
		if r.APIKey != "test-key" {
			t.Fatalf("%s: expected api key header, got %q", r.Path, r.APIKey)
		}
		if got := r.Query["ouid"]; len(got) != 1 || got[0] != "ouid-1" {
			t.Fatalf("%s: unexpected ouid %v", r.Path, got)
		}
		lang := r.Query["language_code"]
		if r.Path == "/tfd/v1/user/descendant" {
			if len(lang) != 0 {
				t.Fatalf("descendant request should not carry language_code")
			}
			continue
		}
		if len(lang) != 1 || lang[0] != "en" {
			t.Fatalf("%s: expected language_code=en, got %v", r.Path, lang)
		}
	}
}

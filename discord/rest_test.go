package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmdatafocus/tfd_bot/config"
)

func TestREST_Send(t *testing.T) {
	var got createMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/channels/c1/messages" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bot tok" {
			t.Errorf("unexpected authorization %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"m1"}`))
	}))
	defer srv.Close()

	rest := NewREST(config.Settings{DiscordToken: "tok", DiscordAPIURL: srv.URL + "/"}, quietLogger())
	if err := rest.Send(context.Background(), "c1", "hello **world**"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.Content != "hello **world**" {
		t.Fatalf("unexpected content %q", got.Content)
	}
}

func TestREST_SendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"You are being rate limited."}`))
	}))
	defer srv.Close()

	rest := NewREST(config.Settings{DiscordToken: "tok", DiscordAPIURL: srv.URL}, quietLogger())
	if err := rest.Send(context.Background(), "c1", "hi"); err == nil {
		t.Fatalf("expected error on 429")
	}
}

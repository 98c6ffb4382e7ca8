package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req embedRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "nomic-embed-text" || req.Prompt != "hello" {
			t.Errorf("req = %+v", req)
		}
		json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{0.1, 0.2}})
	}))
	defer srv.Close()

	c := New(srv.URL, "nomic-embed-text", "")
	vec, err := c.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vec) != 2 || vec[0] != 0.1 {
		t.Errorf("vec = %v", vec)
	}
}

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Stream {
			t.Error("streaming requested")
		}
		if len(req.Messages) != 2 || req.Messages[1].Content != "hi" {
			t.Errorf("messages = %v", req.Messages)
		}
		json.NewEncoder(w).Encode(chatResponse{Message: Message{Role: "assistant", Content: "hello there"}})
	}))
	defer srv.Close()

	c := New(srv.URL, "", "llama3")
	out, err := c.Chat(context.Background(), []Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if out != "hello there" {
		t.Errorf("out = %q", out)
	}
}

func TestErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "m", "m")
	if _, err := c.Embed(context.Background(), "x"); err == nil {
		t.Error("expected error on 500")
	}
}

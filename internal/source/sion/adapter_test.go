package sion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestAdapterFetchOne(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"pid":           123456,
			"url":           "https://img.example.com/p.png",
			"artwork_title": "雪",
			"author":        "shiro",
			"uid":           42,
			"ai_type":       1,
		})
	}))
	defer server.Close()

	adapter := NewAdapter(server.URL)
	img, err := adapter.FetchOne(context.Background())
	if err != nil {
		t.Fatalf("FetchOne failed: %v", err)
	}

	if img.ID != "123456" {
		t.Errorf("expected stringified pid, got %q", img.ID)
	}
	if img.Title != "雪" {
		t.Errorf("unexpected title %q", img.Title)
	}
	if img.Desc != "作者: shiro | AI生成" {
		t.Errorf("unexpected desc %q", img.Desc)
	}
	if len(img.Tags) != 2 || img.Tags[0] != "pixiv" || img.Tags[1] != "AI" {
		t.Errorf("unexpected tags %v", img.Tags)
	}
	if img.Source != SourceName {
		t.Errorf("expected source %q, got %q", SourceName, img.Source)
	}
	if img.Likes < 100 || img.Likes >= 5100 {
		t.Errorf("filler likes %d outside expected range", img.Likes)
	}
}

func TestAdapterFetchMultiple(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		// Every third call fails; FetchMultiple must skip those
		if n%3 == 0 {
			http.Error(w, "upstream down", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"pid":           n,
			"url":           "https://img.example.com/p.png",
			"artwork_title": "t",
			"author":        "a",
			"uid":           1,
			"ai_type":       0,
		})
	}))
	defer server.Close()

	adapter := NewAdapter(server.URL)
	images := adapter.FetchMultiple(context.Background(), 6)

	if calls.Load() != 6 {
		t.Errorf("expected 6 sequential fetches, got %d", calls.Load())
	}
	if len(images) != 4 {
		t.Errorf("expected 4 successful items out of 6, got %d", len(images))
	}
}

func TestAdapterFetchOneUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	adapter := NewAdapter(server.URL)
	if _, err := adapter.FetchOne(context.Background()); err == nil {
		t.Error("expected error on upstream failure")
	}
}

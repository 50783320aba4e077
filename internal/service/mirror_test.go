package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/seele/swipefeed/internal/domain"
)

type fakeObjectStorage struct {
	mu      sync.Mutex
	uploads map[string][]byte
	types   map[string]string
	deletes []string
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{
		uploads: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (f *fakeObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeObjectStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	delete(f.uploads, key)
	return nil
}

func (f *fakeObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.uploads[key]
	return ok, nil
}

func (f *fakeObjectStorage) GetURL(key string) string           { return "https://cdn.example.com/" + key }
func (f *fakeObjectStorage) EnsureBucket(ctx context.Context) error { return nil }

func TestMirrorSaveAndDelete(t *testing.T) {
	payload := []byte("fake-image-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	defer server.Close()

	store := newFakeObjectStorage()
	mirror := NewMirrorService(store, 2)

	mirror.EnqueueSave(domain.ImageData{ID: "a", URL: server.URL + "/a.jpg"})
	mirror.EnqueueDelete("b")
	mirror.Close() // drains the queue

	store.mu.Lock()
	defer store.mu.Unlock()

	data, ok := store.uploads["images/a"]
	if !ok {
		t.Fatal("expected an upload under images/a")
	}
	if string(data) != string(payload) {
		t.Error("uploaded bytes differ from the upstream body")
	}
	if store.types["images/a"] != "image/jpeg" {
		t.Errorf("unexpected content type %q", store.types["images/a"])
	}
	if len(store.deletes) != 1 || store.deletes[0] != "images/b" {
		t.Errorf("expected delete of images/b, got %v", store.deletes)
	}
}

func TestMirrorSaveSkipsFailedDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	store := newFakeObjectStorage()
	mirror := NewMirrorService(store, 1)

	mirror.EnqueueSave(domain.ImageData{ID: "a", URL: server.URL + "/a.jpg"})
	mirror.Close()

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.uploads) != 0 {
		t.Errorf("expected no uploads after a failed download, got %d", len(store.uploads))
	}
}

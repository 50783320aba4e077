package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/seele/swipefeed/internal/config"
	"github.com/seele/swipefeed/internal/domain"
	"github.com/seele/swipefeed/internal/repository"
)

func newTestCache(t *testing.T) *repository.CacheRepository {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "cache.db"),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		AutoMigrate:  true,
	}
	db, err := repository.InitDB(cfg)
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() {
		if err := repository.CloseDB(db); err != nil {
			t.Errorf("CloseDB failed: %v", err)
		}
	})
	return repository.NewCacheRepository(db)
}

func toggleTestImage(id string) *domain.ImageData {
	return &domain.ImageData{
		ID:     id,
		URL:    "https://example.com/" + id + ".jpg",
		Title:  "image " + id,
		Author: domain.Author{ID: "a", Name: "artist"},
		Tags:   []string{"pixiv"},
		Source: "manyacg",
	}
}

func TestToggleUncachedWithPayload(t *testing.T) {
	cache := newTestCache(t)
	svc := NewToggleService(cache, nil, nil)
	ctx := context.Background()

	if err := cache.SetLikes(ctx, "a", 50); err != nil {
		t.Fatalf("SetLikes failed: %v", err)
	}

	result, err := svc.Toggle(ctx, "a", toggleTestImage("a"))
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !result.IsCached {
		t.Error("expected isCached=true after caching toggle")
	}
	if result.Likes != 51 {
		t.Errorf("expected likes 51, got %d", result.Likes)
	}

	cached, err := cache.Has(ctx, "a")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if !cached {
		t.Error("expected Has=true after caching toggle")
	}
	likes, err := cache.GetLikes(ctx, "a")
	if err != nil {
		t.Fatalf("GetLikes failed: %v", err)
	}
	if likes != 51 {
		t.Errorf("expected persisted likes 51, got %d", likes)
	}
}

func TestToggleCachedRemoves(t *testing.T) {
	cache := newTestCache(t)
	svc := NewToggleService(cache, nil, nil)
	ctx := context.Background()

	if err := cache.SetLikes(ctx, "a", 50); err != nil {
		t.Fatalf("SetLikes failed: %v", err)
	}
	if _, err := svc.Toggle(ctx, "a", toggleTestImage("a")); err != nil {
		t.Fatalf("first Toggle failed: %v", err)
	}

	result, err := svc.Toggle(ctx, "a", nil)
	if err != nil {
		t.Fatalf("second Toggle failed: %v", err)
	}
	if result.IsCached {
		t.Error("expected isCached=false after uncaching toggle")
	}
	if result.Likes != 50 {
		t.Errorf("expected likes 50, got %d", result.Likes)
	}

	cached, err := cache.Has(ctx, "a")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if cached {
		t.Error("expected Has=false after uncaching toggle")
	}

	// The tombstone cleared the counter; a fresh read re-seeds below 3100
	likes, err := cache.GetLikes(ctx, "a")
	if err != nil {
		t.Fatalf("GetLikes failed: %v", err)
	}
	if likes >= 3100 {
		t.Errorf("counter survived uncache: got %d", likes)
	}
}

func TestToggleLikesClampAtZero(t *testing.T) {
	cache := newTestCache(t)
	svc := NewToggleService(cache, nil, nil)
	ctx := context.Background()

	if err := cache.Add(ctx, "a", toggleTestImage("a")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := cache.SetLikes(ctx, "a", 0); err != nil {
		t.Fatalf("SetLikes failed: %v", err)
	}

	result, err := svc.Toggle(ctx, "a", nil)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if result.Likes != 0 {
		t.Errorf("expected likes clamped at 0, got %d", result.Likes)
	}
}

func TestToggleNoPayloadCounterOnly(t *testing.T) {
	cache := newTestCache(t)
	svc := NewToggleService(cache, nil, nil)
	ctx := context.Background()

	result, err := svc.Toggle(ctx, "x", nil)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	// Seed is [100, 3100), so the incremented counter lands in [101, 3100]
	if result.Likes < 101 || result.Likes > 3100 {
		t.Errorf("likes %d outside [101, 3100]", result.Likes)
	}

	// No record was stored, only the counter
	cached, err := cache.Has(ctx, "x")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if cached {
		t.Error("expected Has=false for payload-less toggle")
	}
	likes, err := cache.GetLikes(ctx, "x")
	if err != nil {
		t.Fatalf("GetLikes failed: %v", err)
	}
	if likes != result.Likes {
		t.Errorf("counter not persisted: got %d, want %d", likes, result.Likes)
	}
}

type fixedSnapshot struct {
	img domain.ImageData
}

func (f *fixedSnapshot) Lookup(id string) (*domain.ImageData, bool) {
	if id == f.img.ID {
		img := f.img
		return &img, true
	}
	return nil, false
}

func TestToggleNoPayloadSnapshotFallback(t *testing.T) {
	cache := newTestCache(t)
	svc := NewToggleService(cache, &fixedSnapshot{img: *toggleTestImage("a")}, nil)
	ctx := context.Background()

	result, err := svc.Toggle(ctx, "a", nil)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !result.IsCached {
		t.Error("expected isCached=true")
	}

	got, err := cache.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.URL != "https://example.com/a.jpg" {
		t.Errorf("snapshot payload not stored: got url %q", got.URL)
	}
}

func TestToggleConcurrentSameID(t *testing.T) {
	cache := newTestCache(t)
	svc := NewToggleService(cache, nil, nil)
	ctx := context.Background()

	if err := cache.SetLikes(ctx, "a", 10); err != nil {
		t.Fatalf("SetLikes failed: %v", err)
	}

	const toggles = 8
	var wg sync.WaitGroup
	errs := make(chan error, toggles)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Toggle(ctx, "a", toggleTestImage("a"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Toggle failed: %v", err)
		}
	}

	// An even number of serialized toggles must land back on uncached. If
	// two toggles had observed the same prior state the parity would break.
	cached, err := cache.Has(ctx, "a")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if cached {
		t.Error("expected uncached after an even number of toggles")
	}
}

type recordingMirror struct {
	mu      sync.Mutex
	saves   []string
	deletes []string
}

func (m *recordingMirror) EnqueueSave(img domain.ImageData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves = append(m.saves, img.ID)
}

func (m *recordingMirror) EnqueueDelete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, id)
}

func TestToggleNotifiesMirror(t *testing.T) {
	cache := newTestCache(t)
	mirror := &recordingMirror{}
	svc := NewToggleService(cache, nil, mirror)
	ctx := context.Background()

	if _, err := svc.Toggle(ctx, "a", toggleTestImage("a")); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if _, err := svc.Toggle(ctx, "a", nil); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	if len(mirror.saves) != 1 || mirror.saves[0] != "a" {
		t.Errorf("expected one mirror save for a, got %v", mirror.saves)
	}
	if len(mirror.deletes) != 1 || mirror.deletes[0] != "a" {
		t.Errorf("expected one mirror delete for a, got %v", mirror.deletes)
	}
}

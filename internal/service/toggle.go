package service

import (
	"context"
	"sync"

	"github.com/seele/swipefeed/internal/domain"
	"github.com/seele/swipefeed/internal/logger"
	"github.com/seele/swipefeed/internal/repository"
)

// SnapshotProvider supplies recently served item payloads for toggle
// requests that arrive without one. The feed service implements it.
type SnapshotProvider interface {
	Lookup(id string) (*domain.ImageData, bool)
}

// ImageMirror receives fire-and-forget mirror requests when cache
// membership changes. The mirror service implements it.
type ImageMirror interface {
	EnqueueSave(img domain.ImageData)
	EnqueueDelete(id string)
}

// ToggleResult is the outcome of a toggle operation.
type ToggleResult struct {
	ID       string `json:"id"`
	IsCached bool   `json:"isCached"`
	Likes    int    `json:"likes"`
}

// ToggleService atomically flips an item's cached state and adjusts its like
// counter. Toggles for the same id are mutually exclusive: the read of the
// prior state and the writes that follow happen under a per-id lock, so two
// concurrent toggles cannot both observe the same prior state.
type ToggleService struct {
	cache     *repository.CacheRepository
	snapshots SnapshotProvider
	mirror    ImageMirror

	// locks grows one mutex per distinct id ever toggled; entries are never
	// reclaimed, bounded by the id universe the deployment touches.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewToggleService creates a new toggle service.
// Parameters:
//   - cache: cache store repository.
//   - snapshots: payload fallback for payload-less toggles; may be nil.
//   - mirror: image byte mirror; may be nil when mirroring is disabled.
// Returns:
//   - *ToggleService: initialized toggle service.
func NewToggleService(cache *repository.CacheRepository, snapshots SnapshotProvider, mirror ImageMirror) *ToggleService {
	return &ToggleService{
		cache:     cache,
		snapshots: snapshots,
		mirror:    mirror,
		locks:     make(map[string]*sync.Mutex),
	}
}

// Toggle flips the cached state of id.
//
// Uncached -> Cached: the payload (given, or recovered from the snapshot) is
// stored and the like counter is incremented and persisted. With no payload
// available the counter is still incremented and persisted, leaving a
// counter-only state with no record.
//
// Cached -> Uncached: the record, its timestamp, and its counter are removed
// as one tombstone. The reported like count is the previously read value
// decremented and clamped at zero; it is not re-persisted.
//
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: image id to toggle.
//   - payload: full item payload; required to enter the cached state unless
//     the id is in the recent-item snapshot.
// Returns:
//   - *ToggleResult: new state and resulting like count.
//   - error: non-nil if the cache store fails.
func (s *ToggleService) Toggle(ctx context.Context, id string, payload *domain.ImageData) (*ToggleResult, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	cached, err := s.cache.Has(ctx, id)
	if err != nil {
		return nil, err
	}
	likes, err := s.cache.GetLikes(ctx, id)
	if err != nil {
		return nil, err
	}

	if cached {
		if err := s.cache.Remove(ctx, id); err != nil {
			return nil, err
		}
		likes--
		if likes < 0 {
			likes = 0
		}
		if s.mirror != nil {
			s.mirror.EnqueueDelete(id)
		}
		logger.CtxInfo(ctx, "uncached image %s", id)
	} else {
		if payload == nil && s.snapshots != nil {
			payload, _ = s.snapshots.Lookup(id)
		}
		if payload != nil {
			if err := s.cache.Add(ctx, id, payload); err != nil {
				return nil, err
			}
			if s.mirror != nil {
				s.mirror.EnqueueSave(*payload)
			}
		} else {
			logger.CtxWarn(ctx, "toggling %s with no payload, storing counter only", id)
		}
		likes++
		if err := s.cache.SetLikes(ctx, id, likes); err != nil {
			return nil, err
		}
		logger.CtxInfo(ctx, "cached image %s", id)
	}

	return &ToggleResult{
		ID:       id,
		IsCached: !cached,
		Likes:    likes,
	}, nil
}

// lockFor returns the mutex guarding id, creating it on first use.
func (s *ToggleService) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/seele/swipefeed/internal/domain"
	"github.com/seele/swipefeed/internal/logger"
	"github.com/seele/swipefeed/internal/repository"
	"github.com/seele/swipefeed/internal/source"
)

// FeedPage is the page envelope returned for both the live and cached feeds.
type FeedPage struct {
	Images  []domain.ImageData `json:"images"`
	HasMore bool               `json:"hasMore"`
	Total   int64              `json:"total"`
}

// FeedConfig holds configuration for the feed service.
type FeedConfig struct {
	// LiveTotal is the placeholder total for the live feed; upstreams expose
	// no authoritative count.
	LiveTotal     int
	TrendingCount int
	// SnapshotCap bounds the recent-item snapshot.
	SnapshotCap int
}

// FeedService produces feed pages blended from a source adapter and the
// cache store. It keeps a bounded snapshot of recently served items so a
// toggle request that arrives without a payload can still store a record.
// The snapshot is a transient read-through copy; the store stays the single
// source of truth.
type FeedService struct {
	registry *source.Registry
	cache    *repository.CacheRepository

	liveTotal     int
	trendingCount int
	snapshotCap   int

	mu     sync.Mutex
	recent map[string]domain.ImageData
}

// NewFeedService creates a new feed service.
// Parameters:
//   - registry: source adapter registry.
//   - cache: cache store repository.
//   - cfg: feed configuration; nil uses defaults.
// Returns:
//   - *FeedService: initialized feed service.
func NewFeedService(registry *source.Registry, cache *repository.CacheRepository, cfg *FeedConfig) *FeedService {
	liveTotal := 9999
	trendingCount := 10
	snapshotCap := 512
	if cfg != nil {
		if cfg.LiveTotal > 0 {
			liveTotal = cfg.LiveTotal
		}
		if cfg.TrendingCount > 0 {
			trendingCount = cfg.TrendingCount
		}
		if cfg.SnapshotCap > 0 {
			snapshotCap = cfg.SnapshotCap
		}
	}
	return &FeedService{
		registry:      registry,
		cache:         cache,
		liveTotal:     liveTotal,
		trendingCount: trendingCount,
		snapshotCap:   snapshotCap,
		recent:        make(map[string]domain.ImageData),
	}
}

// Live returns one page of the live feed from the named source. Adapter
// failures degrade to an empty page; persisted cached/like state always
// overwrites whatever the adapter reported.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - sourceName: source identifier; unknown names use the default source.
//   - page: 1-based page number.
//   - limit: maximum number of items.
// Returns:
//   - *FeedPage: page envelope with hasMore heuristic and placeholder total.
//   - error: non-nil only if the cache store fails.
func (s *FeedService) Live(ctx context.Context, sourceName string, page, limit int) (*FeedPage, error) {
	images := s.fetchLive(ctx, sourceName, page, limit)
	s.remember(images)

	if err := s.annotate(ctx, images); err != nil {
		return nil, err
	}

	return &FeedPage{
		Images:  images,
		HasMore: len(images) == limit,
		Total:   int64(s.liveTotal),
	}, nil
}

// fetchLive dispatches on the adapter variant and swallows adapter errors,
// degrading to an empty result.
func (s *FeedService) fetchLive(ctx context.Context, sourceName string, page, limit int) []domain.ImageData {
	src := s.registry.Get(sourceName)
	if src == nil {
		logger.CtxWarn(ctx, "no source registered for %q and no default available", sourceName)
		return nil
	}

	switch adapter := src.(type) {
	case source.RandomSource:
		return adapter.FetchMultiple(ctx, limit)
	case source.PagedSource:
		images, err := adapter.Fetch(ctx, page, limit)
		if err != nil {
			logger.CtxWarn(ctx, "source %s fetch failed, serving empty page: %v", src.Name(), err)
			return nil
		}
		return images
	default:
		logger.CtxWarn(ctx, "source %s supports no fetch capability", src.Name())
		return nil
	}
}

// Cached returns one page of the cached feed, ordered most-recent-first,
// with the authoritative store count as total.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - page: 1-based page number.
//   - limit: maximum number of items.
// Returns:
//   - *FeedPage: page envelope.
//   - error: non-nil if the cache store fails.
func (s *FeedService) Cached(ctx context.Context, page, limit int) (*FeedPage, error) {
	images, total, err := s.cache.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &FeedPage{
		Images:  images,
		HasMore: int64(page*limit) < total,
		Total:   total,
	}, nil
}

// Single fetches one item from a single-fetch source and annotates it with
// the cached and like state of the requested id.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - sourceName: source identifier; must resolve to a RandomSource.
//   - id: requested image id, used for the cache annotation.
// Returns:
//   - *domain.ImageData: fetched item.
//   - error: non-nil if the source cannot single-fetch or yields nothing.
func (s *FeedService) Single(ctx context.Context, sourceName, id string) (*domain.ImageData, error) {
	src := s.registry.Get(sourceName)
	adapter, ok := src.(source.RandomSource)
	if !ok {
		return nil, fmt.Errorf("source %q does not support single fetch", sourceName)
	}

	img, err := adapter.FetchOne(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	s.remember([]domain.ImageData{*img})

	cached, err := s.cache.Has(ctx, id)
	if err != nil {
		return nil, err
	}
	likes, err := s.cache.GetLikes(ctx, id)
	if err != nil {
		return nil, err
	}
	img.IsCached = cached
	img.Likes = likes
	return img, nil
}

// Trending returns the top items from the default source, annotated with
// persisted cache/like state.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.ImageData: trending items; empty on adapter failure.
//   - error: non-nil if the cache store fails.
func (s *FeedService) Trending(ctx context.Context) ([]domain.ImageData, error) {
	images := s.fetchLive(ctx, s.registry.DefaultName(), 1, s.trendingCount)
	s.remember(images)
	if err := s.annotate(ctx, images); err != nil {
		return nil, err
	}
	return images, nil
}

// Lookup returns the snapshot copy of a recently served item, if any.
// Parameters:
//   - id: image id.
// Returns:
//   - *domain.ImageData: copy of the snapshot entry.
//   - bool: true if the id was in the snapshot.
func (s *FeedService) Lookup(id string) (*domain.ImageData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.recent[id]
	if !ok {
		return nil, false
	}
	return &img, true
}

// annotate overwrites each item's cached/like fields with the store's truth.
func (s *FeedService) annotate(ctx context.Context, images []domain.ImageData) error {
	for i := range images {
		cached, err := s.cache.Has(ctx, images[i].ID)
		if err != nil {
			return err
		}
		likes, err := s.cache.GetLikes(ctx, images[i].ID)
		if err != nil {
			return err
		}
		images[i].IsCached = cached
		images[i].Likes = likes
	}
	return nil
}

// remember stores served items in the bounded snapshot. When the cap is
// exceeded, arbitrary entries are evicted; the snapshot is best-effort.
func (s *FeedService) remember(images []domain.ImageData) {
	if len(images) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, img := range images {
		s.recent[img.ID] = img
	}
	for id := range s.recent {
		if len(s.recent) <= s.snapshotCap {
			break
		}
		delete(s.recent, id)
	}
}

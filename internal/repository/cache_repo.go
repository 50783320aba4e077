package repository

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/seele/swipefeed/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Like counters for ids never persisted are seeded with a throwaway random
// value in [seedLikesMin, seedLikesMin+seedLikesSpan). The seed is not
// written back, so two reads before a SetLikes may differ.
const (
	seedLikesMin  = 100
	seedLikesSpan = 3000
)

// CacheRepository is the cache store: the durable mapping from image id to
// cached payload, cache timestamp, and like counter. It is the single source
// of truth for cache membership; nothing else holds authoritative state.
type CacheRepository struct {
	db *gorm.DB
}

// NewCacheRepository creates a new CacheRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *CacheRepository: repository instance bound to db.
func NewCacheRepository(db *gorm.DB) *CacheRepository {
	return &CacheRepository{db: db}
}

// Add upserts the cached record and its timestamp for id. Re-adding an
// existing id overwrites the payload wholesale. The like counter is not
// touched.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: image id.
//   - payload: full normalized image record to persist.
// Returns:
//   - error: non-nil if the upsert fails.
func (r *CacheRepository) Add(ctx context.Context, id string, payload *domain.ImageData) error {
	record := &domain.CachedImage{
		ID:       id,
		Payload:  domain.ImagePayload(*payload),
		CachedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(record).Error
}

// Remove deletes the cached record, its timestamp, and its like counter for
// id in one transaction — a full tombstone. Removing an absent id is not an
// error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: image id to remove.
// Returns:
//   - error: non-nil if the delete fails.
func (r *CacheRepository) Remove(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.CachedImage{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.LikeCounter{}, "id = ?", id).Error
	})
}

// Has reports whether a cached record exists for id.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: image id to check.
// Returns:
//   - bool: true if a record exists.
//   - error: non-nil if the lookup fails.
func (r *CacheRepository) Has(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.CachedImage{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Get retrieves the cached payload for id.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: image id.
// Returns:
//   - *domain.ImageData: cached payload if present.
//   - error: gorm.ErrRecordNotFound if absent, other non-nil on failure.
func (r *CacheRepository) Get(ctx context.Context, id string) (*domain.ImageData, error) {
	var record domain.CachedImage
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	payload := domain.ImageData(record.Payload)
	return &payload, nil
}

// GetLikes returns the stored like count for id, or a freshly seeded value
// in [100, 3100) when no counter exists. The seed is not persisted.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: image id.
// Returns:
//   - int: stored or seeded like count, always non-negative.
//   - error: non-nil if the lookup fails.
func (r *CacheRepository) GetLikes(ctx context.Context, id string) (int, error) {
	var counter domain.LikeCounter
	err := r.db.WithContext(ctx).First(&counter, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return seedLikes(), nil
		}
		return 0, err
	}
	return counter.Likes, nil
}

// SetLikes upserts the like counter for id. No bounds are enforced beyond
// what the caller guarantees.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: image id.
//   - likes: counter value to store.
// Returns:
//   - error: non-nil if the upsert fails.
func (r *CacheRepository) SetLikes(ctx context.Context, id string, likes int) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&domain.LikeCounter{ID: id, Likes: likes}).Error
}

// List returns one page of cached images ordered most-recent-first by cache
// timestamp, each annotated with isCached=true and its current like count.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - page: 1-based page number; values below 1 are treated as 1.
//   - limit: maximum number of items per page.
// Returns:
//   - []domain.ImageData: page of annotated cached images.
//   - int64: total number of cached images before slicing.
//   - error: non-nil if the query fails.
func (r *CacheRepository) List(ctx context.Context, page, limit int) ([]domain.ImageData, int64, error) {
	if page < 1 {
		page = 1
	}

	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	var records []domain.CachedImage
	if err := r.db.WithContext(ctx).
		Order("cached_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	images := make([]domain.ImageData, 0, len(records))
	for _, record := range records {
		img := domain.ImageData(record.Payload)
		img.IsCached = true
		likes, err := r.GetLikes(ctx, record.ID)
		if err != nil {
			return nil, 0, err
		}
		img.Likes = likes
		images = append(images, img)
	}

	return images, total, nil
}

// AllIDs returns every cached image id, most recently cached first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []string: ids of all cached images.
//   - error: non-nil if the query fails.
func (r *CacheRepository) AllIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&domain.CachedImage{}).
		Order("cached_at DESC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Count returns the number of cached images.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int64: number of cached records.
//   - error: non-nil if the query fails.
func (r *CacheRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.CachedImage{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func seedLikes() int {
	return rand.IntN(seedLikesSpan) + seedLikesMin
}

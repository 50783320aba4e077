package source

import (
	"context"

	"github.com/seele/swipefeed/internal/domain"
)

// Source is the common contract for image providers. Every adapter owns its
// upstream endpoint, headers, and response-shape translation. The two
// fetching capabilities are split into explicit variants so callers dispatch
// on a type assertion instead of probing method presence.
type Source interface {
	// Name returns the stable identifier this source is registered under.
	Name() string

	// DisplayName returns a human-readable name for this source.
	DisplayName() string
}

// PagedSource is a provider whose upstream exposes a paged list endpoint.
type PagedSource interface {
	Source

	// Fetch returns one page of normalized items.
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	//   - page: 1-based page number.
	//   - limit: maximum number of items to return.
	// Returns:
	//   - []domain.ImageData: normalized items; possibly empty.
	//   - error: non-nil if the upstream call or decoding fails.
	Fetch(ctx context.Context, page, limit int) ([]domain.ImageData, error)
}

// RandomSource is a provider whose upstream returns one random item per call.
type RandomSource interface {
	Source

	// FetchOne returns a single normalized item.
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	// Returns:
	//   - *domain.ImageData: the fetched item.
	//   - error: non-nil if the upstream call or decoding fails.
	FetchOne(ctx context.Context) (*domain.ImageData, error)

	// FetchMultiple assembles count items by issuing sequential single
	// fetches. Failed fetches are skipped, so fewer than count items may be
	// returned. Duplicates are possible and not deduplicated.
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	//   - count: number of single fetches to attempt.
	// Returns:
	//   - []domain.ImageData: items that fetched successfully.
	FetchMultiple(ctx context.Context, count int) []domain.ImageData
}

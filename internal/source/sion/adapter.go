// Package sion adapts the Sion random-image API. The upstream returns one
// random pixiv artwork per call; list fetches are assembled from repeated
// single fetches.
package sion

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/seele/swipefeed/internal/domain"
)

const (
	// SourceName is the identifier this adapter registers under.
	SourceName = "sion"
	// DisplayName is the human-readable source name.
	DisplayName = "Sion"
)

// Adapter implements source.RandomSource for Sion.
type Adapter struct {
	client *resty.Client
	url    string
}

// NewAdapter creates a new Sion adapter.
// Parameters:
//   - url: upstream endpoint URL including query parameters.
// Returns:
//   - *Adapter: initialized adapter.
func NewAdapter(url string) *Adapter {
	client := resty.New()
	client.SetTimeout(15 * time.Second)
	client.SetHeaders(map[string]string{
		"Accept":             "*/*",
		"Accept-Language":    "zh-CN,zh;q=0.9",
		"Cache-Control":      "no-cache",
		"Origin":             "https://1st.moe",
		"Pragma":             "no-cache",
		"Referer":            "https://1st.moe/",
		"Sion-Authorization": "false",
		"User-Agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/144.0.0.0 Safari/537.36",
	})

	return &Adapter{
		client: client,
		url:    url,
	}
}

// Name returns the source identifier.
func (a *Adapter) Name() string {
	return SourceName
}

// DisplayName returns the human-readable source name.
func (a *Adapter) DisplayName() string {
	return DisplayName
}

type randomImage struct {
	PID          int64  `json:"pid"`
	URL          string `json:"url"`
	ArtworkTitle string `json:"artwork_title"`
	Author       string `json:"author"`
	UID          int64  `json:"uid"`
	AIType       int    `json:"ai_type"`
}

// FetchOne returns a single random artwork normalized into a feed item.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - *domain.ImageData: normalized item.
//   - error: non-nil if the upstream call fails or returns an error status.
func (a *Adapter) FetchOne(ctx context.Context) (*domain.ImageData, error) {
	var data randomImage
	resp, err := a.client.R().
		SetContext(ctx).
		SetResult(&data).
		Get(a.url)
	if err != nil {
		return nil, fmt.Errorf("sion request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("sion returned HTTP %d", resp.StatusCode())
	}

	img := normalize(data)
	return &img, nil
}

// FetchMultiple issues count sequential single fetches, skipping failures.
// Duplicates are possible; the upstream draws independently each call.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - count: number of fetches to attempt.
// Returns:
//   - []domain.ImageData: successfully fetched items, possibly fewer than count.
func (a *Adapter) FetchMultiple(ctx context.Context, count int) []domain.ImageData {
	images := make([]domain.ImageData, 0, count)
	for i := 0; i < count; i++ {
		img, err := a.FetchOne(ctx)
		if err != nil {
			continue
		}
		images = append(images, *img)
	}
	return images
}

func normalize(data randomImage) domain.ImageData {
	kind := "原创"
	if data.AIType == 1 {
		kind = "AI生成"
	}
	tag := "原创"
	if data.AIType == 1 {
		tag = "AI"
	}

	return domain.ImageData{
		ID:    fmt.Sprintf("%d", data.PID),
		URL:   data.URL,
		Title: data.ArtworkTitle,
		Desc:  fmt.Sprintf("作者: %s | %s", data.Author, kind),
		Author: domain.Author{
			ID:        fmt.Sprintf("%d", data.UID),
			Name:      data.Author,
			Avatar:    fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%d", data.UID),
			Followers: rand.IntN(10000),
		},
		Likes:     rand.IntN(5000) + 100,
		Views:     rand.IntN(50000) + 1000,
		Comments:  rand.IntN(200),
		Tags:      []string{"pixiv", tag},
		CreatedAt: time.Now().Format("2006-01-02"),
		Source:    SourceName,
	}
}

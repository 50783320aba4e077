// Package manyacg adapts the ManyACG artwork API into the normalized feed
// item shape. The upstream is reached through the site's API-party proxy,
// which expects the target path and query wrapped in a POST body.
package manyacg

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/seele/swipefeed/internal/domain"
)

const (
	// SourceName is the identifier this adapter registers under.
	SourceName = "manyacg"
	// DisplayName is the human-readable source name.
	DisplayName = "ManyACG"
)

// Adapter implements source.PagedSource for ManyACG.
type Adapter struct {
	client *resty.Client
	url    string
}

// NewAdapter creates a new ManyACG adapter.
// Parameters:
//   - url: proxy endpoint URL.
// Returns:
//   - *Adapter: initialized adapter.
func NewAdapter(url string) *Adapter {
	client := resty.New()
	client.SetTimeout(15 * time.Second)
	client.SetHeaders(map[string]string{
		"accept":          "application/json",
		"accept-language": "zh-CN,zh;q=0.9",
		"cache-control":   "no-cache",
		"content-type":    "application/json",
		"origin":          "https://manyacg.top",
		"pragma":          "no-cache",
		"referer":         "https://manyacg.top/",
		"user-agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/144.0.0.0 Safari/537.36",
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

// proxyRequest is the body shape the API-party proxy expects.
type proxyRequest struct {
	Path    string     `json:"path"`
	Query   proxyQuery `json:"query"`
	Headers []string   `json:"headers"`
	Method  string     `json:"method"`
}

type proxyQuery struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	R18      int `json:"r18"`
	Limit    int `json:"limit"`
}

type listResponse struct {
	Status int       `json:"status"`
	Data   []artwork `json:"data"`
}

type artwork struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Pictures    []picture `json:"pictures"`
	Artist      artist    `json:"artist"`
	LikeCount   int       `json:"like_count"`
	Tags        []string  `json:"tags"`
	CreatedAt   string    `json:"created_at"`
	SourceType  string    `json:"source_type"`
	SourceURL   string    `json:"source_url"`
	R18         bool      `json:"r18"`
}

type picture struct {
	Regular   string `json:"regular"`
	Thumbnail string `json:"thumbnail"`
}

type artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	UID  int64  `json:"uid"`
}

// Fetch returns one page of artworks normalized into feed items.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - page: 1-based page number.
//   - limit: maximum number of items.
// Returns:
//   - []domain.ImageData: normalized items.
//   - error: non-nil if the upstream call fails or the response is malformed.
func (a *Adapter) Fetch(ctx context.Context, page, limit int) ([]domain.ImageData, error) {
	var result listResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(proxyRequest{
			Path: "/artwork/list",
			Query: proxyQuery{
				Page:     page,
				PageSize: limit,
				R18:      0,
				Limit:    limit,
			},
			Headers: []string{},
			Method:  "GET",
		}).
		SetResult(&result).
		Post(a.url)
	if err != nil {
		return nil, fmt.Errorf("manyacg request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("manyacg returned HTTP %d", resp.StatusCode())
	}
	if result.Status != 200 || result.Data == nil {
		return nil, fmt.Errorf("manyacg returned invalid response (status %d)", result.Status)
	}

	images := make([]domain.ImageData, 0, len(result.Data))
	for _, art := range result.Data {
		images = append(images, normalize(art))
	}
	return images, nil
}

// normalize translates one artwork record into the canonical item shape.
// Engagement numbers the upstream does not report are filled with random
// placeholders, matching what the feed client expects to render.
func normalize(art artwork) domain.ImageData {
	var url, thumb string
	if len(art.Pictures) > 0 {
		url = art.Pictures[0].Regular
		if url == "" {
			url = art.Pictures[0].Thumbnail
		}
		thumb = art.Pictures[0].Thumbnail
	}

	desc := art.Description
	if desc == "" {
		desc = fmt.Sprintf("%s | %s", art.Artist.Name, art.SourceType)
	}

	likes := art.LikeCount
	if likes == 0 {
		likes = rand.IntN(5000) + 100
	}

	tags := art.Tags
	if len(tags) > 5 {
		tags = tags[:5]
	}

	createdAt := art.CreatedAt
	if idx := strings.Index(createdAt, " "); idx != -1 {
		createdAt = createdAt[:idx]
	}

	return domain.ImageData{
		ID:    art.ID,
		URL:   url,
		Thumb: thumb,
		Title: art.Title,
		Desc:  desc,
		Author: domain.Author{
			ID:        art.Artist.ID,
			Name:      art.Artist.Name,
			Avatar:    fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%d", art.Artist.UID),
			Followers: rand.IntN(10000),
		},
		Likes:     likes,
		Views:     rand.IntN(50000) + 1000,
		Comments:  rand.IntN(200),
		Tags:      tags,
		CreatedAt: createdAt,
		Source:    SourceName,
		SourceURL: art.SourceURL,
		R18:       art.R18,
	}
}

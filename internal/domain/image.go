package domain

// Author represents the creator of an image as reported by an upstream source.
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Followers int    `json:"followers"`
}

// ImageData is the normalized image record served to the feed client.
// Adapters translate every upstream response into this shape; the cache
// store persists it wholesale as the item payload.
type ImageData struct {
	ID        string   `json:"id"`
	URL       string   `json:"url"`
	Thumb     string   `json:"thumb,omitempty"`
	Title     string   `json:"title"`
	Desc      string   `json:"desc"`
	Author    Author   `json:"author"`
	Likes     int      `json:"likes"`
	Views     int      `json:"views"`
	Comments  int      `json:"comments"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"createdAt"`
	Source    string   `json:"source"`
	SourceURL string   `json:"sourceUrl,omitempty"`
	R18       bool     `json:"r18,omitempty"`
	IsCached  bool     `json:"isCached,omitempty"`
}

// Comment is an ephemeral per-image comment. Comments live in process
// memory only and carry no persistence requirement.
type Comment struct {
	ID        string `json:"id"`
	User      Author `json:"user"`
	Content   string `json:"content"`
	Likes     int    `json:"likes"`
	CreatedAt string `json:"createdAt"`
}

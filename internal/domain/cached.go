package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ImagePayload is a custom type storing a full ImageData record as a JSON
// column. The payload is immutable once written; re-adding an id overwrites
// it wholesale, never patches it.
type ImagePayload ImageData

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the payload.
//   - error: non-nil if marshaling fails.
func (p ImagePayload) Value() (driver.Value, error) {
	b, err := json.Marshal(ImageData(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (p *ImagePayload) Scan(value interface{}) error {
	if value == nil {
		*p = ImagePayload{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan ImagePayload")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, (*ImageData)(p))
}

// CachedImage is a saved image record: the item payload as received at cache
// time plus the cache timestamp that orders the cached feed. At most one row
// exists per image id.
type CachedImage struct {
	ID       string       `gorm:"type:text;primaryKey" json:"id"`
	Payload  ImagePayload `gorm:"type:text;not null" json:"payload"`
	CachedAt time.Time    `gorm:"index:idx_cached_images_cached_at" json:"cached_at"`
}

// TableName returns the database table name for CachedImage.
func (CachedImage) TableName() string {
	return "cached_images"
}

// LikeCounter holds the per-id like count. Its lifecycle is independent from
// CachedImage: a counter may exist for an id that was never cached.
type LikeCounter struct {
	ID    string `gorm:"type:text;primaryKey" json:"id"`
	Likes int    `gorm:"not null;default:0" json:"likes"`
}

// TableName returns the database table name for LikeCounter.
func (LikeCounter) TableName() string {
	return "like_counters"
}

// SchemaMeta is a key/value row for store metadata such as the schema version.
type SchemaMeta struct {
	Key   string `gorm:"type:text;primaryKey" json:"key"`
	Value string `gorm:"type:text;not null" json:"value"`
}

// TableName returns the database table name for SchemaMeta.
func (SchemaMeta) TableName() string {
	return "schema_meta"
}

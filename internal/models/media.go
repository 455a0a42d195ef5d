package models

import (
	"time"

	"gorm.io/gorm"

	"peysphotos/api/internal/ids"
)

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// MediaItem is the unified metadata record for one uploaded asset. Images and
// videos share the table; video-only attributes are nullable.
type MediaItem struct {
	ID          string    `gorm:"type:varchar(27);primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description,omitempty"`
	Kind        MediaKind `gorm:"type:varchar(10);not null;index" json:"kind"`

	// AssetID is the remote host's object key; URL is the canonical display URL.
	AssetID string `gorm:"uniqueIndex;not null" json:"assetId"`
	URL     string `gorm:"not null" json:"url"`

	Width     *int   `json:"width,omitempty"`
	Height    *int   `json:"height,omitempty"`
	Format    string `json:"format,omitempty"`
	SizeBytes int64  `json:"size"`

	// Position sorts items within their category, ascending, lowest first.
	Position int  `gorm:"default:0;index" json:"position"`
	Featured bool `gorm:"default:false" json:"featured"`

	Duration     *float64 `json:"duration,omitempty"`
	ThumbnailURL *string  `json:"thumbnailUrl,omitempty"`
	Bitrate      *int     `json:"bitrate,omitempty"`
	FrameRate    *float64 `json:"frameRate,omitempty"`

	CategoryID string    `gorm:"type:varchar(27);not null;index" json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// RemoteOnly marks feed entries synthesized from a remote folder scan that
	// have no local row yet. Never persisted.
	RemoteOnly bool `gorm:"-" json:"remoteOnly,omitempty"`
}

func (m *MediaItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = ids.New()
	}
	return nil
}

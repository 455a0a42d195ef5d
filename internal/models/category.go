package models

import (
	"regexp"
	"time"

	"gorm.io/gorm"

	"peysphotos/api/internal/ids"
)

// Category keys end up in URLs and in asset host folder paths.
var categoryKeyPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// LegacyVideosKey is the folder-convention subcategory name that must never
// surface as a real category.
const LegacyVideosKey = "videos"

type Category struct {
	ID          string    `gorm:"type:varchar(27);primaryKey" json:"id"`
	Key         string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"key"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	ParentID    *string   `gorm:"type:varchar(27);index" json:"parentId,omitempty"`
	Private     bool      `gorm:"default:false" json:"private"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = ids.New()
	}
	return nil
}

// IsValidKey reports whether key is URL-safe: lowercase letters, digits and
// hyphens only, no leading/trailing/double hyphens.
func IsValidKey(key string) bool {
	return key != "" && len(key) <= 64 && categoryKeyPattern.MatchString(key)
}

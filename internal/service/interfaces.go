package service

import (
	"context"
	"time"

	"peysphotos/api/internal/models"
	"peysphotos/api/internal/storage"
)

// MediaStore is the slice of the media repository the services consume.
type MediaStore interface {
	Create(ctx context.Context, item *models.MediaItem) error
	GetByID(ctx context.Context, id string) (models.MediaItem, error)
	GetByAssetID(ctx context.Context, assetID string) (models.MediaItem, error)
	ListByCategory(ctx context.Context, categoryID string) ([]models.MediaItem, error)
	ListAll(ctx context.Context) ([]models.MediaItem, error)
	Update(ctx context.Context, item *models.MediaItem) error
	Delete(ctx context.Context, id string) error
	SetFeatured(ctx context.Context, categoryID, mediaID string) error
	Reorder(ctx context.Context, categoryID string, orderedIDs []string) error
}

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (models.Category, error)
	GetByKey(ctx context.Context, key string) (models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	ListChildren(ctx context.Context, parentID string) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	CollectTree(ctx context.Context, id string) ([]string, []models.MediaItem, error)
	DeleteCascade(ctx context.Context, categoryIDs []string) error
}

// AssetStore is the remote asset host surface: upload, best-effort delete,
// and the folder listing the legacy scan and the sweep depend on.
type AssetStore interface {
	Upload(ctx context.Context, in storage.UploadInput) (storage.UploadResult, error)
	Delete(ctx context.Context, assetID string) error
	List(ctx context.Context, folder string) ([]storage.RemoteObject, error)
	PublicURL(assetID string) string
	ThumbnailURL(assetID string) string
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (models.Session, error)
	UpdateToken(ctx context.Context, id string, hash []byte, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
}

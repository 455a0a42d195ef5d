package repository

import (
	"context"

	"gorm.io/gorm"

	"peysphotos/api/internal/models"
)

type MediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create inserts one media record, assigning its position as the category's
// current maximum plus one. The read and the insert share a transaction so
// the known concurrent-upload tie window stays as narrow as the store allows.
func (r *MediaRepository) Create(ctx context.Context, item *models.MediaItem) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPosition int
		if err := tx.Model(&models.MediaItem{}).
			Where("category_id = ?", item.CategoryID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPosition).Error; err != nil {
			return err
		}
		item.Position = maxPosition + 1
		return tx.Create(item).Error
	})
	return mapError(err)
}

func (r *MediaRepository) GetByID(ctx context.Context, id string) (models.MediaItem, error) {
	var item models.MediaItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return models.MediaItem{}, mapError(err)
	}
	return item, nil
}

func (r *MediaRepository) GetByAssetID(ctx context.Context, assetID string) (models.MediaItem, error) {
	var item models.MediaItem
	if err := r.db.WithContext(ctx).First(&item, "asset_id = ?", assetID).Error; err != nil {
		return models.MediaItem{}, mapError(err)
	}
	return item, nil
}

// ListByCategory returns the category's media ordered by position, with
// creation time as the stable tie-breaker.
func (r *MediaRepository) ListByCategory(ctx context.Context, categoryID string) ([]models.MediaItem, error) {
	var items []models.MediaItem
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("position ASC, created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

func (r *MediaRepository) ListByCategories(ctx context.Context, categoryIDs []string) ([]models.MediaItem, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var items []models.MediaItem
	err := r.db.WithContext(ctx).
		Where("category_id IN ?", categoryIDs).
		Find(&items).Error
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

func (r *MediaRepository) ListAll(ctx context.Context) ([]models.MediaItem, error) {
	var items []models.MediaItem
	if err := r.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

func (r *MediaRepository) Update(ctx context.Context, item *models.MediaItem) error {
	return mapError(r.db.WithContext(ctx).Save(item).Error)
}

func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.MediaItem{}, "id = ?", id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFeatured marks one image as its category's banner, clearing the flag on
// any previous holder in the same transaction.
func (r *MediaRepository) SetFeatured(ctx context.Context, categoryID, mediaID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MediaItem{}).
			Where("category_id = ? AND featured", categoryID).
			Update("featured", false).Error; err != nil {
			return err
		}
		result := tx.Model(&models.MediaItem{}).
			Where("id = ? AND category_id = ?", mediaID, categoryID).
			Update("featured", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return mapError(err)
}

// Reorder rewrites positions 1..n following the given id order.
func (r *MediaRepository) Reorder(ctx context.Context, categoryID string, orderedIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			result := tx.Model(&models.MediaItem{}).
				Where("id = ? AND category_id = ?", id, categoryID).
				Update("position", i+1)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	return mapError(err)
}

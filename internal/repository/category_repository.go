package repository

import (
	"context"

	"gorm.io/gorm"

	"peysphotos/api/internal/models"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return mapError(r.db.WithContext(ctx).Create(category).Error)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return models.Category{}, mapError(err)
	}
	return category, nil
}

func (r *CategoryRepository) GetByKey(ctx context.Context, key string) (models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "key = ?", key).Error; err != nil {
		return models.Category{}, mapError(err)
	}
	return category, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&categories).Error; err != nil {
		return nil, mapError(err)
	}
	return categories, nil
}

func (r *CategoryRepository) ListChildren(ctx context.Context, parentID string) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("key ASC").
		Find(&categories).Error
	if err != nil {
		return nil, mapError(err)
	}
	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return mapError(r.db.WithContext(ctx).Save(category).Error)
}

// CollectTree gathers the category, its direct children (nesting is one level
// deep) and every media row they own. Callers use the media list for
// best-effort remote cleanup before the local cascade.
func (r *CategoryRepository) CollectTree(ctx context.Context, id string) ([]string, []models.MediaItem, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, nil, err
	}

	children, err := r.ListChildren(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	categoryIDs := make([]string, 0, len(children)+1)
	categoryIDs = append(categoryIDs, id)
	for _, child := range children {
		categoryIDs = append(categoryIDs, child.ID)
	}

	var media []models.MediaItem
	if err := r.db.WithContext(ctx).Where("category_id IN ?", categoryIDs).Find(&media).Error; err != nil {
		return nil, nil, mapError(err)
	}

	return categoryIDs, media, nil
}

// DeleteCascade removes the category subtree and all owned media rows in one
// transaction, so no local media record can outlive its category.
func (r *CategoryRepository) DeleteCascade(ctx context.Context, categoryIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id IN ?", categoryIDs).Delete(&models.MediaItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", categoryIDs).Delete(&models.Category{}).Error
	})
	return mapError(err)
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"peysphotos/api/internal/cache"
	"peysphotos/api/internal/config"
	"peysphotos/api/internal/models"
	"peysphotos/api/internal/repository"
)

type CategoryService struct {
	categories CategoryStore
	assets     AssetStore
	feedCache  *cache.FeedCache
	cfg        *config.AppConfig
	log        zerolog.Logger
}

func NewCategoryService(
	categories CategoryStore,
	assets AssetStore,
	feedCache *cache.FeedCache,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *CategoryService {
	return &CategoryService{
		categories: categories,
		assets:     assets,
		feedCache:  feedCache,
		cfg:        cfg,
		log:        log,
	}
}

type CreateCategoryInput struct {
	Key         string
	Name        string
	Description string
	ParentID    *string
	Private     bool
}

func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (models.Category, error) {
	in.Key = strings.TrimSpace(strings.ToLower(in.Key))
	if !models.IsValidKey(in.Key) {
		return models.Category{}, ErrInvalidKey
	}
	if in.Key == models.LegacyVideosKey {
		return models.Category{}, ErrReservedKey
	}

	if in.ParentID != nil {
		parent, err := s.categories.GetByID(ctx, *in.ParentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return models.Category{}, ErrCategoryNotFound
			}
			return models.Category{}, err
		}
		// One level of nesting only: a parent cannot itself be a child.
		if parent.ParentID != nil {
			return models.Category{}, ErrNestingTooDeep
		}
	}

	category := models.Category{
		Key:         in.Key,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ParentID:    in.ParentID,
		Private:     in.Private,
	}
	if category.Name == "" {
		category.Name = in.Key
	}

	if err := s.categories.Create(ctx, &category); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

type UpdateCategoryInput struct {
	Key         *string
	Name        *string
	Description *string
	ParentID    *string
	ClearParent bool
	Private     *bool
}

func (s *CategoryService) Update(ctx context.Context, id string, in UpdateCategoryInput) (models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, err
	}

	if in.Key != nil {
		key := strings.TrimSpace(strings.ToLower(*in.Key))
		if !models.IsValidKey(key) {
			return models.Category{}, ErrInvalidKey
		}
		if key == models.LegacyVideosKey {
			return models.Category{}, ErrReservedKey
		}
		category.Key = key
	}
	if in.Name != nil {
		category.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.Private != nil {
		category.Private = *in.Private
	}

	switch {
	case in.ClearParent:
		category.ParentID = nil
	case in.ParentID != nil:
		if *in.ParentID == category.ID {
			return models.Category{}, ErrNestingTooDeep
		}
		parent, err := s.categories.GetByID(ctx, *in.ParentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return models.Category{}, ErrCategoryNotFound
			}
			return models.Category{}, err
		}
		if parent.ParentID != nil {
			return models.Category{}, ErrNestingTooDeep
		}
		// A category with children cannot become a child itself.
		children, err := s.categories.ListChildren(ctx, category.ID)
		if err != nil {
			return models.Category{}, err
		}
		if len(children) > 0 {
			return models.Category{}, ErrNestingTooDeep
		}
		category.ParentID = in.ParentID
	}

	if err := s.categories.Update(ctx, &category); err != nil {
		return models.Category{}, err
	}

	s.feedCache.Invalidate(ctx, category.ID)
	return category, nil
}

// List returns categories visible to the caller, dropping the legacy
// "videos" artifact and, for non-admins, private subtrees.
func (s *CategoryService) List(ctx context.Context, includePrivate bool) ([]models.Category, error) {
	all, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Category, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	visible := make([]models.Category, 0, len(all))
	for _, c := range all {
		if IsLegacyVideosCategory(c) {
			continue
		}
		if !includePrivate {
			if c.Private {
				continue
			}
			if c.ParentID != nil {
				if parent, ok := byID[*c.ParentID]; ok && parent.Private {
					continue
				}
			}
		}
		visible = append(visible, c)
	}
	return visible, nil
}

// Delete cascades over the category subtree. Remote assets are removed first
// and best-effort; the local cascade runs in one transaction and proceeds
// regardless of remote failures, which the sweep job mops up later.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	categoryIDs, media, err := s.categories.CollectTree(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	for _, item := range media {
		if err := s.assets.Delete(ctx, item.AssetID); err != nil {
			s.log.Warn().Err(err).
				Str("asset_id", item.AssetID).
				Msg("remote delete failed during category cascade")
		}
	}

	if err := s.categories.DeleteCascade(ctx, categoryIDs); err != nil {
		return err
	}

	for _, categoryID := range categoryIDs {
		s.feedCache.Invalidate(ctx, categoryID)
	}
	s.log.Info().
		Str("category_id", id).
		Int("categories", len(categoryIDs)).
		Int("media", len(media)).
		Msg("category cascade deleted")
	return nil
}

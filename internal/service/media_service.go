package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"peysphotos/api/internal/cache"
	"peysphotos/api/internal/models"
	"peysphotos/api/internal/repository"
)

// MediaService covers the write paths that follow an upload: edits,
// reordering, and the deletion pipeline.
type MediaService struct {
	media     MediaStore
	assets    AssetStore
	feedCache *cache.FeedCache
	log       zerolog.Logger
}

func NewMediaService(media MediaStore, assets AssetStore, feedCache *cache.FeedCache, log zerolog.Logger) *MediaService {
	return &MediaService{
		media:     media,
		assets:    assets,
		feedCache: feedCache,
		log:       log,
	}
}

// Delete removes one media item: remote asset first (best-effort, logged on
// failure), then the local record. The local delete is the one that must not
// fail silently, since a dangling row is a visible broken gallery entry.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	item, err := s.media.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMediaNotFound
		}
		return err
	}

	if err := s.assets.Delete(ctx, item.AssetID); err != nil {
		s.log.Warn().Err(err).
			Str("asset_id", item.AssetID).
			Msg("remote delete failed, leaving orphaned asset")
	}

	if err := s.media.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete local record: %w", err)
	}

	s.feedCache.Invalidate(ctx, item.CategoryID)
	return nil
}

type EditInput struct {
	Title       *string
	Description *string
	Featured    *bool
}

func (s *MediaService) Edit(ctx context.Context, id string, in EditInput) (models.MediaItem, error) {
	item, err := s.media.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.MediaItem{}, ErrMediaNotFound
		}
		return models.MediaItem{}, err
	}

	if in.Title != nil {
		item.Title = *in.Title
	}
	if in.Description != nil {
		item.Description = *in.Description
	}

	if in.Featured != nil && *in.Featured {
		if item.Kind != models.MediaKindImage {
			return models.MediaItem{}, ErrNotAnImage
		}
		if err := s.media.SetFeatured(ctx, item.CategoryID, item.ID); err != nil {
			return models.MediaItem{}, err
		}
		item.Featured = true
	} else if in.Featured != nil {
		item.Featured = false
	}

	if err := s.media.Update(ctx, &item); err != nil {
		return models.MediaItem{}, err
	}

	s.feedCache.Invalidate(ctx, item.CategoryID)
	return item, nil
}

func (s *MediaService) Reorder(ctx context.Context, categoryID string, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return nil
	}
	if err := s.media.Reorder(ctx, categoryID, orderedIDs); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMediaNotFound
		}
		return err
	}
	s.feedCache.Invalidate(ctx, categoryID)
	return nil
}

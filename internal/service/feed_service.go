package service

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"peysphotos/api/internal/cache"
	"peysphotos/api/internal/config"
	"peysphotos/api/internal/models"
	"peysphotos/api/internal/repository"
	"peysphotos/api/internal/storage"
)

// FeedService produces the merged, ordered media feed for a category. The
// steady-state path reads the local store only; the legacy remote-scan
// variant exists to surface folder-convention videos that never got a row.
type FeedService struct {
	media      MediaStore
	categories CategoryStore
	assets     AssetStore
	feedCache  *cache.FeedCache
	cfg        *config.AppConfig
	log        zerolog.Logger
}

func NewFeedService(
	media MediaStore,
	categories CategoryStore,
	assets AssetStore,
	feedCache *cache.FeedCache,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *FeedService {
	return &FeedService{
		media:      media,
		categories: categories,
		assets:     assets,
		feedCache:  feedCache,
		cfg:        cfg,
		log:        log,
	}
}

type FeedInput struct {
	CategoryID  string
	CategoryKey string
	// IncludePrivate is only honored for admin callers; handlers enforce that.
	IncludePrivate bool
	// IncludeRemote turns on the legacy remote folder scan.
	IncludeRemote bool
}

type FeedCounts struct {
	Images int `json:"images"`
	Videos int `json:"videos"`
	Total  int `json:"total"`
}

type Feed struct {
	Category      models.Category    `json:"category"`
	Subcategories []models.Category  `json:"subcategories"`
	Items         []models.MediaItem `json:"items"`
	Counts        FeedCounts         `json:"counts"`
}

func (s *FeedService) List(ctx context.Context, in FeedInput) (Feed, error) {
	category, err := s.resolveCategory(ctx, in)
	if err != nil {
		return Feed{}, err
	}

	if !in.IncludePrivate {
		visible, err := visibleToViewer(ctx, s.categories, category)
		if err != nil {
			return Feed{}, err
		}
		if !visible {
			return Feed{}, ErrCategoryNotFound
		}
	}

	cacheable := !in.IncludePrivate && !in.IncludeRemote
	if cacheable {
		var cached Feed
		if s.feedCache.Get(ctx, category.ID, &cached) {
			return cached, nil
		}
	}

	subcategories, err := s.visibleSubcategories(ctx, category.ID, in.IncludePrivate)
	if err != nil {
		return Feed{}, err
	}

	items, err := s.media.ListByCategory(ctx, category.ID)
	if err != nil {
		return Feed{}, err
	}

	if in.IncludeRemote {
		folder, err := resolveFolder(ctx, s.categories, s.cfg.Storage.RootFolder, category)
		if err != nil {
			return Feed{}, err
		}
		remote, err := s.assets.List(ctx, folder+"/"+models.LegacyVideosKey)
		if err != nil {
			// The scan is a legacy recovery path; a listing failure degrades
			// to the local-only feed rather than breaking reads.
			s.log.Warn().Err(err).Str("folder", folder).Msg("remote video scan failed")
		} else {
			items = Reconcile(items, remote, category.ID, s.assets.PublicURL, s.assets.ThumbnailURL)
		}
	}

	feed := Feed{
		Category:      category,
		Subcategories: subcategories,
		Items:         items,
		Counts:        countKinds(items),
	}

	if cacheable {
		s.feedCache.Set(ctx, category.ID, feed)
	}
	return feed, nil
}

func (s *FeedService) resolveCategory(ctx context.Context, in FeedInput) (models.Category, error) {
	var (
		category models.Category
		err      error
	)
	switch {
	case in.CategoryID != "":
		category, err = s.categories.GetByID(ctx, in.CategoryID)
	case in.CategoryKey != "":
		category, err = s.categories.GetByKey(ctx, in.CategoryKey)
	default:
		return models.Category{}, ErrMissingCategory
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, err
	}
	return category, nil
}

// visibleSubcategories lists one level of children, dropping private ones for
// non-admin callers and always dropping the legacy "videos" folder artifact.
func (s *FeedService) visibleSubcategories(ctx context.Context, categoryID string, includePrivate bool) ([]models.Category, error) {
	children, err := s.categories.ListChildren(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	visible := make([]models.Category, 0, len(children))
	for _, child := range children {
		if IsLegacyVideosCategory(child) {
			continue
		}
		if child.Private && !includePrivate {
			continue
		}
		visible = append(visible, child)
	}
	return visible, nil
}

// IsLegacyVideosCategory reports whether a category is the folder-convention
// "videos" artifact rather than a real user category.
func IsLegacyVideosCategory(c models.Category) bool {
	return c.Key == models.LegacyVideosKey ||
		strings.EqualFold(strings.TrimSpace(c.Name), models.LegacyVideosKey)
}

// Reconcile merges local records with a remote folder scan into one ordered
// sequence. Dedup is by asset identifier, first occurrence wins (locals come
// first); synthesized remote-only entries take positions past every local
// item so they always sort last.
func Reconcile(
	local []models.MediaItem,
	remote []storage.RemoteObject,
	categoryID string,
	publicURL func(string) string,
	thumbnailURL func(string) string,
) []models.MediaItem {
	seen := make(map[string]struct{}, len(local))
	maxPosition := 0
	for _, item := range local {
		seen[item.AssetID] = struct{}{}
		if item.Position > maxPosition {
			maxPosition = item.Position
		}
	}

	merged := make([]models.MediaItem, len(local))
	copy(merged, local)

	offset := maxPosition
	for _, obj := range remote {
		if _, ok := seen[obj.AssetID]; ok {
			continue
		}
		seen[obj.AssetID] = struct{}{}
		offset++

		ext := strings.TrimPrefix(path.Ext(obj.AssetID), ".")
		thumb := thumbnailURL(obj.AssetID)
		merged = append(merged, models.MediaItem{
			ID:           obj.AssetID,
			Title:        titleFromAssetID(obj.AssetID),
			Kind:         models.MediaKindVideo,
			AssetID:      obj.AssetID,
			URL:          publicURL(obj.AssetID),
			Format:       ext,
			SizeBytes:    obj.SizeBytes,
			Position:     offset,
			CategoryID:   categoryID,
			ThumbnailURL: &thumb,
			RemoteOnly:   true,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Position != merged[j].Position {
			return merged[i].Position < merged[j].Position
		}
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})
	return merged
}

func titleFromAssetID(assetID string) string {
	base := path.Base(assetID)
	base = strings.TrimSuffix(base, path.Ext(base))
	return strings.ReplaceAll(base, "-", " ")
}

func countKinds(items []models.MediaItem) FeedCounts {
	counts := FeedCounts{Total: len(items)}
	for _, item := range items {
		switch item.Kind {
		case models.MediaKindImage:
			counts.Images++
		case models.MediaKindVideo:
			counts.Videos++
		}
	}
	return counts
}

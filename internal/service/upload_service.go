package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"peysphotos/api/internal/cache"
	"peysphotos/api/internal/config"
	"peysphotos/api/internal/media/compress"
	"peysphotos/api/internal/media/sniffer"
	"peysphotos/api/internal/models"
	"peysphotos/api/internal/repository"
	"peysphotos/api/internal/storage"
)

// UploadService is the consolidated intake pipeline: validate, compress when
// oversized, resolve the category folder, upload to the asset host, persist
// the metadata row, and compensate the remote side if persistence fails.
type UploadService struct {
	media      MediaStore
	categories CategoryStore
	assets     AssetStore
	feedCache  *cache.FeedCache
	cfg        *config.AppConfig
	log        zerolog.Logger
}

func NewUploadService(
	media MediaStore,
	categories CategoryStore,
	assets AssetStore,
	feedCache *cache.FeedCache,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *UploadService {
	return &UploadService{
		media:      media,
		categories: categories,
		assets:     assets,
		feedCache:  feedCache,
		cfg:        cfg,
		log:        log,
	}
}

func (s *UploadService) Upload(ctx context.Context, req UploadRequest) (models.MediaItem, error) {
	if err := ValidateUpload(&req, s.cfg.Upload); err != nil {
		return models.MediaItem{}, err
	}

	sniffed, err := sniffer.DetectHead(head(req.Data))
	if err != nil || sniffed.Kind != req.Kind {
		return models.MediaItem{}, ErrWrongType
	}
	format := string(sniffed.Type)
	contentType := sniffed.MIME

	// The category must resolve before any byte leaves the building.
	category, err := s.categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.MediaItem{}, ErrCategoryNotFound
		}
		return models.MediaItem{}, err
	}
	folder, err := resolveFolder(ctx, s.categories, s.cfg.Storage.RootFolder, category)
	if err != nil {
		return models.MediaItem{}, err
	}

	width, height := req.Width, req.Height
	if req.Kind == models.MediaKindImage {
		data, w, h, f, ct, err := s.fitImage(req.Data)
		if err != nil {
			return models.MediaItem{}, err
		}
		req.Data = data
		if w > 0 && h > 0 {
			width, height = &w, &h
		}
		if f != "" {
			format, contentType = f, ct
		}
	}

	result, err := s.assets.Upload(ctx, storage.UploadInput{
		Folder:      folder,
		PublicID:    publicID(req.Title),
		Kind:        req.Kind,
		ContentType: contentType,
		Format:      format,
		Data:        req.Data,
	})
	if err != nil {
		s.log.Error().Err(err).
			Str("class", string(storage.ClassOf(err))).
			Str("folder", folder).
			Msg("remote upload failed")
		return models.MediaItem{}, err
	}

	item := models.MediaItem{
		Title:       req.Title,
		Description: req.Description,
		Kind:        req.Kind,
		AssetID:     result.AssetID,
		URL:         result.URL,
		Width:       width,
		Height:      height,
		Format:      result.Format,
		SizeBytes:   result.SizeBytes,
		CategoryID:  category.ID,
		Duration:    req.Duration,
		Bitrate:     req.Bitrate,
		FrameRate:   req.FrameRate,
	}
	if req.Kind == models.MediaKindVideo && result.ThumbnailURL != "" {
		item.ThumbnailURL = &result.ThumbnailURL
	}

	if err := s.media.Create(ctx, &item); err != nil {
		s.compensate(ctx, result.AssetID)
		return models.MediaItem{}, fmt.Errorf("save metadata: %w", err)
	}

	s.feedCache.Invalidate(ctx, category.ID)

	return item, nil
}

// fitImage compresses an over-budget image. A failed re-encode falls back to
// the original bytes so the size ceiling can reject it cleanly instead of
// shipping a corrupt result.
func (s *UploadService) fitImage(data []byte) ([]byte, int, int, string, string, error) {
	limits := s.cfg.Upload

	if int64(len(data)) <= limits.MaxImageBytes {
		w, h, err := compress.Dimensions(data)
		if err != nil {
			// Dimensions are nullable; an undecodable-but-sniffed image still
			// uploads.
			return data, 0, 0, "", "", nil
		}
		if w <= limits.MaxPixelDimension && h <= limits.MaxPixelDimension {
			return data, w, h, "", "", nil
		}
	}

	result, err := compress.Fit(data, compress.Options{
		TargetBytes:  limits.MaxImageBytes,
		MaxDimension: limits.MaxPixelDimension,
		StartQuality: limits.JPEGStartQuality,
		QualityStep:  limits.JPEGQualityStep,
		QualityFloor: limits.JPEGQualityFloor,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("image compression failed, falling back to original")
		if int64(len(data)) > limits.MaxImageBytes {
			return nil, 0, 0, "", "", ErrTooLarge
		}
		return data, 0, 0, "", "", nil
	}

	if int64(len(result.Data)) > limits.MaxImageBytes {
		return nil, 0, 0, "", "", ErrTooLarge
	}
	if result.Compressed {
		return result.Data, result.Width, result.Height, "jpeg", "image/jpeg", nil
	}
	return result.Data, result.Width, result.Height, "", "", nil
}

// compensate deletes the just-created remote asset after a persistence
// failure. Best-effort: a second failure is logged and the user-visible
// outcome stays "upload failed"; the reconciliation sweep catches the drift.
func (s *UploadService) compensate(ctx context.Context, assetID string) {
	if err := s.assets.Delete(ctx, assetID); err != nil {
		s.log.Error().Err(err).
			Str("asset_id", assetID).
			Msg("compensating delete failed, orphaned remote asset")
		return
	}
	s.log.Info().Str("asset_id", assetID).Msg("compensated orphaned upload")
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// publicID derives a collision-resistant asset name from the upload time and
// a sanitized title.
func publicID(title string) string {
	slug := unsafeChars.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 48 {
		slug = slug[:48]
	}
	if slug == "" {
		slug = "untitled"
	}
	return fmt.Sprintf("%d-%s", time.Now().Unix(), slug)
}

func head(data []byte) []byte {
	if len(data) > 512 {
		return data[:512]
	}
	return data
}

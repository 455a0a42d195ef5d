package jobs

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"peysphotos/api/internal/config"
	"peysphotos/api/internal/models"
	"peysphotos/api/internal/service"
	"peysphotos/api/internal/storage"
)

// Reconciler is the out-of-band sweep the compensating-action pattern leans
// on: it lists remote assets per category, diffs them against local records,
// deletes orphans, and backfills legacy folder-convention videos that were
// uploaded without ever getting a database row.
type Reconciler struct {
	media      service.MediaStore
	categories service.CategoryStore
	assets     service.AssetStore
	rootFolder string
	log        zerolog.Logger
}

func NewReconciler(
	media service.MediaStore,
	categories service.CategoryStore,
	assets service.AssetStore,
	cfg config.StorageConfig,
	log zerolog.Logger,
) *Reconciler {
	return &Reconciler{
		media:      media,
		categories: categories,
		assets:     assets,
		rootFolder: cfg.RootFolder,
		log:        log,
	}
}

// sweepGrace shields objects uploaded moments before the sweep runs; an
// asset between its remote put and its metadata insert has no row yet but is
// not an orphan.
const sweepGrace = time.Hour

type SweepReport struct {
	CategoriesScanned int
	OrphansDeleted    int
	VideosBackfilled  int
}

func (r *Reconciler) Sweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	known, err := r.knownAssetIDs(ctx)
	if err != nil {
		return report, err
	}

	categories, err := r.categories.List(ctx)
	if err != nil {
		return report, err
	}
	byID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	for _, category := range categories {
		// Children are reached through their own folder below.
		folder := r.folderFor(category, byID)
		remote, err := r.assets.List(ctx, folder)
		if err != nil {
			r.log.Warn().Err(err).Str("folder", folder).Msg("remote listing failed, skipping category")
			continue
		}
		report.CategoriesScanned++

		for _, obj := range remote {
			// Recursive listings under a parent folder include subcategory
			// objects; those are handled by their own category's scan.
			if !belongsToFolder(obj.AssetID, folder) {
				continue
			}
			if _, ok := known[obj.AssetID]; ok {
				continue
			}
			// A young unknown object may belong to an upload still between
			// the remote put and its database insert; leave it for the next
			// sweep rather than racing the pipeline.
			if !obj.LastModified.IsZero() && time.Since(obj.LastModified) < sweepGrace {
				continue
			}
			if isLegacyVideoKey(obj.AssetID) {
				if r.backfillVideo(ctx, category.ID, obj) {
					known[obj.AssetID] = struct{}{}
					report.VideosBackfilled++
				}
				continue
			}
			// No local record and not a legacy video: billable orphan.
			if err := r.assets.Delete(ctx, obj.AssetID); err != nil {
				r.log.Warn().Err(err).Str("asset_id", obj.AssetID).Msg("orphan delete failed")
				continue
			}
			r.log.Info().Str("asset_id", obj.AssetID).Msg("deleted orphaned remote asset")
			report.OrphansDeleted++
		}
	}

	return report, nil
}

func (r *Reconciler) knownAssetIDs(ctx context.Context) (map[string]struct{}, error) {
	items, err := r.media.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(items))
	for _, item := range items {
		known[item.AssetID] = struct{}{}
	}
	return known, nil
}

func (r *Reconciler) folderFor(category models.Category, byID map[string]models.Category) string {
	if category.ParentID != nil {
		if parent, ok := byID[*category.ParentID]; ok {
			return path.Join(r.rootFolder, parent.Key, category.Key)
		}
	}
	return path.Join(r.rootFolder, category.Key)
}

// backfillVideo turns a legacy folder-convention video into a real record, so
// steady-state reads stop depending on remote scans.
func (r *Reconciler) backfillVideo(ctx context.Context, categoryID string, obj storage.RemoteObject) bool {
	base := path.Base(obj.AssetID)
	ext := path.Ext(base)
	thumb := r.assets.ThumbnailURL(obj.AssetID)

	item := models.MediaItem{
		Title:        strings.ReplaceAll(strings.TrimSuffix(base, ext), "-", " "),
		Kind:         models.MediaKindVideo,
		AssetID:      obj.AssetID,
		URL:          r.assets.PublicURL(obj.AssetID),
		Format:       strings.TrimPrefix(ext, "."),
		SizeBytes:    obj.SizeBytes,
		CategoryID:   categoryID,
		ThumbnailURL: &thumb,
	}
	if err := r.media.Create(ctx, &item); err != nil {
		r.log.Warn().Err(err).Str("asset_id", obj.AssetID).Msg("video backfill failed")
		return false
	}
	r.log.Info().Str("asset_id", obj.AssetID).Str("media_id", item.ID).Msg("backfilled legacy video")
	return true
}

// belongsToFolder accepts direct children of the folder and of its legacy
// videos/ subfolder only.
func belongsToFolder(assetID, folder string) bool {
	rel := strings.TrimPrefix(assetID, strings.TrimSuffix(folder, "/")+"/")
	if rel == assetID {
		return false
	}
	segments := strings.Split(rel, "/")
	if len(segments) == 1 {
		return true
	}
	return len(segments) == 2 && segments[0] == models.LegacyVideosKey
}

func isLegacyVideoKey(assetID string) bool {
	dir := path.Dir(assetID)
	return path.Base(dir) == models.LegacyVideosKey
}

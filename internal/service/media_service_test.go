package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peysphotos/api/internal/models"
)

func newMediaFixture() (*MediaService, *fakeMediaStore, *fakeAssetStore) {
	media := newFakeMediaStore()
	assets := &fakeAssetStore{}
	svc := NewMediaService(media, assets, nil, zerolog.Nop())
	return svc, media, assets
}

func TestDeleteRemovesRemoteThenLocal(t *testing.T) {
	svc, media, assets := newMediaFixture()
	media.items["m1"] = models.MediaItem{ID: "m1", AssetID: "root/cat/a.jpg", CategoryID: "cat-1"}

	require.NoError(t, svc.Delete(context.Background(), "m1"))

	assert.Equal(t, []string{"root/cat/a.jpg"}, assets.deletes)
	_, err := media.GetByID(context.Background(), "m1")
	assert.Error(t, err)
}

func TestDeleteUnknownMedia(t *testing.T) {
	svc, _, assets := newMediaFixture()

	err := svc.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrMediaNotFound)
	assert.Empty(t, assets.deletes)
}

func TestDeleteSurvivesRemoteFailure(t *testing.T) {
	svc, media, assets := newMediaFixture()
	media.items["m1"] = models.MediaItem{ID: "m1", AssetID: "root/cat/a.jpg", CategoryID: "cat-1"}
	assets.deleteFn = func(ctx context.Context, assetID string) error {
		return errors.New("remote down")
	}

	// The local record still goes; the sweep reclaims the remote asset later.
	require.NoError(t, svc.Delete(context.Background(), "m1"))
	_, err := media.GetByID(context.Background(), "m1")
	assert.Error(t, err)
}

func TestDeleteLocalFailureIsFatal(t *testing.T) {
	svc, media, _ := newMediaFixture()
	media.items["m1"] = models.MediaItem{ID: "m1", AssetID: "root/cat/a.jpg", CategoryID: "cat-1"}
	media.deleteFn = func(ctx context.Context, id string) error {
		return errors.New("database down")
	}

	assert.Error(t, svc.Delete(context.Background(), "m1"))
}

func TestEditUpdatesFields(t *testing.T) {
	svc, media, _ := newMediaFixture()
	media.items["m1"] = models.MediaItem{ID: "m1", AssetID: "a", CategoryID: "cat-1", Kind: models.MediaKindImage, Title: "old"}

	title := "new title"
	description := "fresh"
	item, err := svc.Edit(context.Background(), "m1", EditInput{Title: &title, Description: &description})
	require.NoError(t, err)
	assert.Equal(t, "new title", item.Title)
	assert.Equal(t, "fresh", item.Description)
}

func TestEditFeaturedSwapsWithinCategory(t *testing.T) {
	svc, media, _ := newMediaFixture()
	media.items["m1"] = models.MediaItem{ID: "m1", AssetID: "a", CategoryID: "cat-1", Kind: models.MediaKindImage, Featured: true}
	media.items["m2"] = models.MediaItem{ID: "m2", AssetID: "b", CategoryID: "cat-1", Kind: models.MediaKindImage}

	featured := true
	item, err := svc.Edit(context.Background(), "m2", EditInput{Featured: &featured})
	require.NoError(t, err)
	assert.True(t, item.Featured)

	old, err := media.GetByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.False(t, old.Featured)
}

func TestEditFeaturedRejectsVideos(t *testing.T) {
	svc, media, _ := newMediaFixture()
	media.items["m1"] = models.MediaItem{ID: "m1", AssetID: "a", CategoryID: "cat-1", Kind: models.MediaKindVideo}

	featured := true
	_, err := svc.Edit(context.Background(), "m1", EditInput{Featured: &featured})
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestReorderAssignsSequentialPositions(t *testing.T) {
	svc, media, _ := newMediaFixture()
	media.items["m1"] = models.MediaItem{ID: "m1", AssetID: "a", CategoryID: "cat-1", Position: 1}
	media.items["m2"] = models.MediaItem{ID: "m2", AssetID: "b", CategoryID: "cat-1", Position: 2}
	media.items["m3"] = models.MediaItem{ID: "m3", AssetID: "c", CategoryID: "cat-1", Position: 3}

	require.NoError(t, svc.Reorder(context.Background(), "cat-1", []string{"m3", "m1", "m2"}))

	item, _ := media.GetByID(context.Background(), "m3")
	assert.Equal(t, 1, item.Position)
	item, _ = media.GetByID(context.Background(), "m1")
	assert.Equal(t, 2, item.Position)
}

func TestReorderEmptyListIsNoop(t *testing.T) {
	svc, media, _ := newMediaFixture()
	require.NoError(t, svc.Reorder(context.Background(), "cat-1", nil))
	assert.Empty(t, media.reorderLog)
}

func TestReorderUnknownID(t *testing.T) {
	svc, _, _ := newMediaFixture()
	err := svc.Reorder(context.Background(), "cat-1", []string{"ghost"})
	assert.ErrorIs(t, err, ErrMediaNotFound)
}

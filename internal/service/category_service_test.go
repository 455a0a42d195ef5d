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

func newCategoryFixture(categories ...models.Category) (*CategoryService, *fakeCategoryStore, *fakeAssetStore) {
	cats := newFakeCategoryStore(categories...)
	assets := &fakeAssetStore{}
	svc := NewCategoryService(cats, assets, nil, testAppConfig(), zerolog.Nop())
	return svc, cats, assets
}

func TestCreateCategoryNormalizesKey(t *testing.T) {
	svc, _, _ := newCategoryFixture()

	category, err := svc.Create(context.Background(), CreateCategoryInput{Key: "  Weddings  "})
	require.NoError(t, err)
	assert.Equal(t, "weddings", category.Key)
	assert.Equal(t, "weddings", category.Name)
}

func TestCreateCategoryRejectsBadKeys(t *testing.T) {
	svc, _, _ := newCategoryFixture()

	for _, key := range []string{"", "With Space", "-bad", "bad-", "ümlaut"} {
		_, err := svc.Create(context.Background(), CreateCategoryInput{Key: key})
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}

	_, err := svc.Create(context.Background(), CreateCategoryInput{Key: "videos"})
	assert.ErrorIs(t, err, ErrReservedKey)
}

func TestCreateCategoryNestingRules(t *testing.T) {
	parentID := "cat-parent"
	childID := "cat-child"
	svc, _, _ := newCategoryFixture(
		models.Category{ID: parentID, Key: "travel"},
		models.Category{ID: childID, Key: "iceland", ParentID: &parentID},
	)

	created, err := svc.Create(context.Background(), CreateCategoryInput{Key: "norway", ParentID: &parentID})
	require.NoError(t, err)
	assert.Equal(t, &parentID, created.ParentID)

	// A child cannot be a parent.
	_, err = svc.Create(context.Background(), CreateCategoryInput{Key: "reykjavik", ParentID: &childID})
	assert.ErrorIs(t, err, ErrNestingTooDeep)

	ghost := "no-such-parent"
	_, err = svc.Create(context.Background(), CreateCategoryInput{Key: "orphan", ParentID: &ghost})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateCategoryReparentGuards(t *testing.T) {
	parentID := "cat-parent"
	childID := "cat-child"
	soloID := "cat-solo"
	svc, _, _ := newCategoryFixture(
		models.Category{ID: parentID, Key: "travel"},
		models.Category{ID: childID, Key: "iceland", ParentID: &parentID},
		models.Category{ID: soloID, Key: "street"},
	)

	// Self-parenting.
	_, err := svc.Update(context.Background(), soloID, UpdateCategoryInput{ParentID: &soloID})
	assert.ErrorIs(t, err, ErrNestingTooDeep)

	// A category with children cannot become a child.
	_, err = svc.Update(context.Background(), parentID, UpdateCategoryInput{ParentID: &soloID})
	assert.ErrorIs(t, err, ErrNestingTooDeep)

	// Moving under a child is too deep.
	_, err = svc.Update(context.Background(), soloID, UpdateCategoryInput{ParentID: &childID})
	assert.ErrorIs(t, err, ErrNestingTooDeep)

	// Valid reparent.
	updated, err := svc.Update(context.Background(), soloID, UpdateCategoryInput{ParentID: &parentID})
	require.NoError(t, err)
	assert.Equal(t, &parentID, updated.ParentID)

	// Clearing promotes back to top level.
	updated, err = svc.Update(context.Background(), soloID, UpdateCategoryInput{ClearParent: true})
	require.NoError(t, err)
	assert.Nil(t, updated.ParentID)
}

func TestUpdateCategoryPrivacyToggle(t *testing.T) {
	svc, cats, _ := newCategoryFixture(models.Category{ID: "cat-1", Key: "clients"})

	private := true
	_, err := svc.Update(context.Background(), "cat-1", UpdateCategoryInput{Private: &private})
	require.NoError(t, err)

	stored, err := cats.GetByID(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.True(t, stored.Private)
}

func TestListCategoriesFiltersForViewers(t *testing.T) {
	parentID := "cat-private"
	svc, _, _ := newCategoryFixture(
		models.Category{ID: "cat-1", Key: "weddings"},
		models.Category{ID: parentID, Key: "clients", Private: true},
		models.Category{ID: "cat-child", Key: "smith", ParentID: &parentID},
		models.Category{ID: "cat-videos", Key: "music", Name: "Videos"},
	)

	visible, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "weddings", visible[0].Key)

	all, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDeleteCategoryCascades(t *testing.T) {
	svc, cats, assets := newCategoryFixture(models.Category{ID: "cat-1", Key: "travel"})
	cats.collectTreeFn = func(ctx context.Context, id string) ([]string, []models.MediaItem, error) {
		return []string{"cat-1", "cat-child"}, []models.MediaItem{
			{ID: "m1", AssetID: "root/travel/a.jpg"},
			{ID: "m2", AssetID: "root/travel/iceland/b.jpg"},
		}, nil
	}

	require.NoError(t, svc.Delete(context.Background(), "cat-1"))

	assert.ElementsMatch(t, []string{"root/travel/a.jpg", "root/travel/iceland/b.jpg"}, assets.deletes)
	require.Len(t, cats.cascaded, 1)
	assert.Equal(t, []string{"cat-1", "cat-child"}, cats.cascaded[0])
}

func TestDeleteCategoryProceedsPastRemoteFailures(t *testing.T) {
	svc, cats, assets := newCategoryFixture(models.Category{ID: "cat-1", Key: "travel"})
	cats.collectTreeFn = func(ctx context.Context, id string) ([]string, []models.MediaItem, error) {
		return []string{"cat-1"}, []models.MediaItem{{ID: "m1", AssetID: "root/travel/a.jpg"}}, nil
	}
	assets.deleteFn = func(ctx context.Context, assetID string) error {
		return errors.New("remote down")
	}

	require.NoError(t, svc.Delete(context.Background(), "cat-1"))
	assert.Len(t, cats.cascaded, 1)
}

func TestDeleteCategoryUnknown(t *testing.T) {
	svc, _, _ := newCategoryFixture()
	err := svc.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

package service

import (
	"context"
	"time"

	"peysphotos/api/internal/models"
	"peysphotos/api/internal/repository"
	"peysphotos/api/internal/storage"
)

type fakeMediaStore struct {
	items map[string]models.MediaItem

	createFn   func(ctx context.Context, item *models.MediaItem) error
	deleteFn   func(ctx context.Context, id string) error
	reorderLog [][]string
	created    []models.MediaItem
	deleted    []string
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{items: map[string]models.MediaItem{}}
}

func (f *fakeMediaStore) Create(ctx context.Context, item *models.MediaItem) error {
	if f.createFn != nil {
		return f.createFn(ctx, item)
	}
	if item.ID == "" {
		item.ID = "media-" + item.AssetID
	}
	item.Position = len(f.items) + 1
	f.items[item.ID] = *item
	f.created = append(f.created, *item)
	return nil
}

func (f *fakeMediaStore) GetByID(ctx context.Context, id string) (models.MediaItem, error) {
	item, ok := f.items[id]
	if !ok {
		return models.MediaItem{}, repository.ErrNotFound
	}
	return item, nil
}

func (f *fakeMediaStore) GetByAssetID(ctx context.Context, assetID string) (models.MediaItem, error) {
	for _, item := range f.items {
		if item.AssetID == assetID {
			return item, nil
		}
	}
	return models.MediaItem{}, repository.ErrNotFound
}

func (f *fakeMediaStore) ListByCategory(ctx context.Context, categoryID string) ([]models.MediaItem, error) {
	var out []models.MediaItem
	for _, item := range f.items {
		if item.CategoryID == categoryID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeMediaStore) ListAll(ctx context.Context) ([]models.MediaItem, error) {
	var out []models.MediaItem
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeMediaStore) Update(ctx context.Context, item *models.MediaItem) error {
	if _, ok := f.items[item.ID]; !ok {
		return repository.ErrNotFound
	}
	f.items[item.ID] = *item
	return nil
}

func (f *fakeMediaStore) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeMediaStore) SetFeatured(ctx context.Context, categoryID, mediaID string) error {
	for id, item := range f.items {
		if item.CategoryID == categoryID {
			item.Featured = id == mediaID
			f.items[id] = item
		}
	}
	return nil
}

func (f *fakeMediaStore) Reorder(ctx context.Context, categoryID string, orderedIDs []string) error {
	f.reorderLog = append(f.reorderLog, orderedIDs)
	for pos, id := range orderedIDs {
		item, ok := f.items[id]
		if !ok {
			return repository.ErrNotFound
		}
		item.Position = pos + 1
		f.items[id] = item
	}
	return nil
}

type fakeCategoryStore struct {
	categories map[string]models.Category

	collectTreeFn   func(ctx context.Context, id string) ([]string, []models.MediaItem, error)
	deleteCascadeFn func(ctx context.Context, categoryIDs []string) error
	cascaded        [][]string
}

func newFakeCategoryStore(categories ...models.Category) *fakeCategoryStore {
	f := &fakeCategoryStore{categories: map[string]models.Category{}}
	for _, c := range categories {
		f.categories[c.ID] = c
	}
	return f
}

func (f *fakeCategoryStore) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = "cat-" + category.Key
	}
	for _, existing := range f.categories {
		if existing.Key == category.Key {
			return repository.ErrDuplicate
		}
	}
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryStore) GetByID(ctx context.Context, id string) (models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return models.Category{}, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategoryStore) GetByKey(ctx context.Context, key string) (models.Category, error) {
	for _, c := range f.categories {
		if c.Key == key {
			return c, nil
		}
	}
	return models.Category{}, repository.ErrNotFound
}

func (f *fakeCategoryStore) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryStore) ListChildren(ctx context.Context, parentID string) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryStore) Update(ctx context.Context, category *models.Category) error {
	if _, ok := f.categories[category.ID]; !ok {
		return repository.ErrNotFound
	}
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryStore) CollectTree(ctx context.Context, id string) ([]string, []models.MediaItem, error) {
	if f.collectTreeFn != nil {
		return f.collectTreeFn(ctx, id)
	}
	if _, ok := f.categories[id]; !ok {
		return nil, nil, repository.ErrNotFound
	}
	return []string{id}, nil, nil
}

func (f *fakeCategoryStore) DeleteCascade(ctx context.Context, categoryIDs []string) error {
	if f.deleteCascadeFn != nil {
		return f.deleteCascadeFn(ctx, categoryIDs)
	}
	f.cascaded = append(f.cascaded, categoryIDs)
	for _, id := range categoryIDs {
		delete(f.categories, id)
	}
	return nil
}

type fakeAssetStore struct {
	uploadFn func(ctx context.Context, in storage.UploadInput) (storage.UploadResult, error)
	deleteFn func(ctx context.Context, assetID string) error
	listFn   func(ctx context.Context, folder string) ([]storage.RemoteObject, error)

	uploads []storage.UploadInput
	deletes []string
}

func (f *fakeAssetStore) Upload(ctx context.Context, in storage.UploadInput) (storage.UploadResult, error) {
	f.uploads = append(f.uploads, in)
	if f.uploadFn != nil {
		return f.uploadFn(ctx, in)
	}
	assetID := in.Folder + "/" + in.PublicID + "." + in.Format
	return storage.UploadResult{
		AssetID:   assetID,
		URL:       "https://cdn.test/" + assetID,
		Format:    in.Format,
		SizeBytes: int64(len(in.Data)),
	}, nil
}

func (f *fakeAssetStore) Delete(ctx context.Context, assetID string) error {
	f.deletes = append(f.deletes, assetID)
	if f.deleteFn != nil {
		return f.deleteFn(ctx, assetID)
	}
	return nil
}

func (f *fakeAssetStore) List(ctx context.Context, folder string) ([]storage.RemoteObject, error) {
	if f.listFn != nil {
		return f.listFn(ctx, folder)
	}
	return nil, nil
}

func (f *fakeAssetStore) PublicURL(assetID string) string {
	return "https://cdn.test/" + assetID
}

func (f *fakeAssetStore) ThumbnailURL(assetID string) string {
	return "https://cdn.test/thumb/" + assetID
}

type fakeUserStore struct {
	users map[string]models.User
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	f := &fakeUserStore{users: map[string]models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

type fakeSessionStore struct {
	sessions map[string]models.Session
	next     int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]models.Session{}}
}

func (f *fakeSessionStore) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		f.next++
		session.ID = "session-" + string(rune('a'+f.next))
	}
	f.sessions[session.ID] = *session
	return nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id string) (models.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return models.Session{}, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessionStore) UpdateToken(ctx context.Context, id string, hash []byte, expiresAt time.Time) error {
	s, ok := f.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.RefreshTokenHash = hash
	s.ExpiresAt = expiresAt
	f.sessions[id] = s
	return nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.sessions, id)
	return nil
}

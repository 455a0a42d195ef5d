package service

import (
	"context"
	"errors"
	"fmt"

	"peysphotos/api/internal/models"
	"peysphotos/api/internal/repository"
)

// resolveFolder computes the asset host path for a category:
// <root>/<parent-key>/<key> when nested, else <root>/<key>.
func resolveFolder(ctx context.Context, categories CategoryStore, root string, category models.Category) (string, error) {
	if category.ParentID == nil {
		return fmt.Sprintf("%s/%s", root, category.Key), nil
	}

	parent, err := categories.GetByID(ctx, *category.ParentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrCategoryNotFound
		}
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", root, parent.Key, category.Key), nil
}

// visibleToViewer reports whether a category (and its ancestry) is public.
func visibleToViewer(ctx context.Context, categories CategoryStore, category models.Category) (bool, error) {
	if category.Private {
		return false, nil
	}
	if category.ParentID == nil {
		return true, nil
	}
	parent, err := categories.GetByID(ctx, *category.ParentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return !parent.Private, nil
}

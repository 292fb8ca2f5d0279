package service

import (
	"context"

	"little-lemon/internal/model"
)

// MenuService defines the menu browsing operations used by the client.
type MenuService interface {
	// Sections returns the cached menu grouped by category, fetching and
	// caching the remote feed first when the cache is empty.
	Sections(ctx context.Context) ([]model.Section, error)

	// Search returns items whose title contains text within the selected
	// categories, grouped by category. No selection means every category.
	Search(ctx context.Context, text string, selected []string) ([]model.Section, error)

	// Refresh refetches the remote feed and replaces the cached snapshot.
	// It returns the number of cached items; an empty feed leaves the cache
	// untouched and returns zero.
	Refresh(ctx context.Context) (int, error)

	// Categories returns the known menu categories.
	Categories() []string
}

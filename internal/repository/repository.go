package repository

import (
	"context"

	"little-lemon/internal/model"
)

// MenuCache is the durable local mirror of the remote menu.
type MenuCache interface {
	// EnsureReady opens the underlying store once. Concurrent callers share
	// the same in-flight open. A failure is not remembered, so a later call
	// retries.
	EnsureReady(ctx context.Context) error

	// CreateSchema creates the menu table if it does not exist.
	CreateSchema(ctx context.Context) error

	// GetAll returns the current snapshot in id order.
	// Read failures are logged and yield an empty result.
	GetAll(ctx context.Context) []model.MenuItem

	// ReplaceAll swaps the whole snapshot for items in a single transaction.
	// On failure the previous snapshot is kept and the error is returned.
	ReplaceAll(ctx context.Context, items []model.MenuItem) error

	// Query returns items whose title contains text, ignoring ASCII case,
	// and whose category is one of categories. An empty category list
	// matches nothing. Read failures are logged and yield an empty result.
	Query(ctx context.Context, text string, categories []string) []model.MenuItem

	// Close releases the underlying store, if one was opened.
	Close() error
}

// MenuStore is an opened storage backend for the menu cache.
// Implementations return raw driver errors; MenuCache classifies them.
type MenuStore interface {
	CreateSchema(ctx context.Context) error
	LoadAll(ctx context.Context) ([]model.MenuItem, error)
	ReplaceAll(ctx context.Context, items []model.MenuItem) error
	Query(ctx context.Context, pattern string, categories []string) ([]model.MenuItem, error)
	Close() error
}

// Opener opens a MenuStore.
type Opener func(ctx context.Context) (MenuStore, error)

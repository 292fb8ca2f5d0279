package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"little-lemon/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

var (
	errNotReady = model.NewCacheError(model.ErrInitialization, "store not opened", nil)
	errClosed   = errors.New("menu cache closed")
)

// menuCache implements MenuCache on top of a lazily opened MenuStore.
type menuCache struct {
	open   Opener
	group  singleflight.Group
	mu     sync.RWMutex
	store  MenuStore
	closed bool
	logger zerolog.Logger
}

// NewMenuCache creates a menu cache that opens its store with open on first use.
func NewMenuCache(open Opener, logger zerolog.Logger) MenuCache {
	return &menuCache{
		open:   open,
		logger: logger.With().Str("repository", "menu-cache").Logger(),
	}
}

func (c *menuCache) current() MenuStore {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

func (c *menuCache) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// EnsureReady opens the underlying store once. It fails after Close.
func (c *menuCache) EnsureReady(ctx context.Context) error {
	if c.current() != nil {
		return nil
	}
	if c.isClosed() {
		return model.NewCacheError(model.ErrInitialization, "ensure ready", errClosed)
	}

	// Late callers join the open already in flight. The open outlives any
	// single caller's cancellation because every waiter depends on it.
	openCtx := context.WithoutCancel(ctx)
	_, err, shared := c.group.Do("open", func() (interface{}, error) {
		if store := c.current(); store != nil {
			return store, nil
		}

		c.logger.Info().Msg("opening menu store")

		store, err := c.open(openCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			// Close ran while the store was opening; nobody else will release it.
			if closeErr := store.Close(); closeErr != nil {
				c.logger.Error().Err(closeErr).Msg("failed to close store opened after cache close")
			}
			return nil, errClosed
		}
		c.store = store
		c.mu.Unlock()

		c.logger.Info().Msg("menu store ready")
		return store, nil
	})
	if err != nil {
		c.logger.Error().Err(err).Bool("shared", shared).Msg("failed to open menu store")
		return model.NewCacheError(model.ErrInitialization, "ensure ready", err)
	}

	return nil
}

// CreateSchema creates the menu table if it does not exist.
func (c *menuCache) CreateSchema(ctx context.Context) error {
	store := c.current()
	if store == nil {
		c.logger.Error().Msg("schema requested before the store was opened")
		return model.NewCacheError(model.ErrSchema, "create schema", errNotReady)
	}

	if err := store.CreateSchema(ctx); err != nil {
		c.logger.Error().Err(err).Msg("failed to create menu schema")
		return model.NewCacheError(model.ErrSchema, "create schema", err)
	}

	return nil
}

// GetAll returns the current snapshot in id order.
func (c *menuCache) GetAll(ctx context.Context) []model.MenuItem {
	store := c.current()
	if store == nil {
		c.logReadError(errNotReady, "get all")
		return []model.MenuItem{}
	}

	items, err := store.LoadAll(ctx)
	if err != nil {
		c.logReadError(err, "get all")
		return []model.MenuItem{}
	}

	c.logger.Debug().Int("count", len(items)).Msg("loaded menu snapshot")

	return items
}

// ReplaceAll swaps the whole snapshot for items.
func (c *menuCache) ReplaceAll(ctx context.Context, items []model.MenuItem) error {
	store := c.current()
	if store == nil {
		c.logger.Error().Msg("replace requested before the store was opened")
		return model.NewCacheError(model.ErrWrite, "replace all", errNotReady)
	}

	if err := store.ReplaceAll(ctx, items); err != nil {
		c.logger.Error().Err(err).Int("count", len(items)).Msg("failed to replace menu snapshot")
		return model.NewCacheError(model.ErrWrite, "replace all", err)
	}

	c.logger.Info().Int("count", len(items)).Msg("menu snapshot replaced")

	return nil
}

// Query returns items matching text and categories.
func (c *menuCache) Query(ctx context.Context, text string, categories []string) []model.MenuItem {
	if len(categories) == 0 {
		return []model.MenuItem{}
	}

	store := c.current()
	if store == nil {
		c.logReadError(errNotReady, "query")
		return []model.MenuItem{}
	}

	items, err := store.Query(ctx, ContainsPattern(text), categories)
	if err != nil {
		c.logReadError(err, "query")
		return []model.MenuItem{}
	}

	c.logger.Debug().
		Str("text", text).
		Strs("categories", categories).
		Int("count", len(items)).
		Msg("queried menu snapshot")

	return items
}

// Close releases the underlying store. A store whose open is still in
// flight is released as soon as the open completes.
func (c *menuCache) Close() error {
	c.mu.Lock()
	store := c.store
	c.store = nil
	c.closed = true
	c.mu.Unlock()

	if store == nil {
		return nil
	}
	return store.Close()
}

func (c *menuCache) logReadError(err error, op string) {
	readErr := model.NewCacheError(model.ErrRead, op, err)
	event := c.logger.Error()
	if errors.Is(err, model.ErrInitialization) {
		event = c.logger.Warn()
	}
	event.Err(readErr).Msg("menu read failed, returning empty result")
}

// likeEscaper escapes LIKE wildcards so text matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns a LIKE pattern, for use with ESCAPE '\', that
// matches any value containing text.
func ContainsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

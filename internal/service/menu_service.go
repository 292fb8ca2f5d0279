package service

import (
	"context"

	"little-lemon/internal/feed"
	"little-lemon/internal/menu"
	"little-lemon/internal/model"
	"little-lemon/internal/repository"

	"github.com/rs/zerolog"
)

// menuService implements MenuService.
type menuService struct {
	cache      repository.MenuCache
	loader     feed.Loader
	categories []string
	logger     zerolog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(
	cache repository.MenuCache,
	loader feed.Loader,
	categories []string,
	logger zerolog.Logger,
) MenuService {
	return &menuService{
		cache:      cache,
		loader:     loader,
		categories: categories,
		logger:     logger.With().Str("service", "menu").Logger(),
	}
}

// Sections returns the cached menu grouped by category.
func (s *menuService) Sections(ctx context.Context) ([]model.Section, error) {
	if err := s.prepare(ctx); err != nil {
		return nil, err
	}

	items := s.cache.GetAll(ctx)
	if len(items) == 0 {
		s.logger.Info().Msg("menu cache empty, fetching remote feed")

		items = s.fetch(ctx)
		if len(items) > 0 {
			if err := s.cache.ReplaceAll(ctx, items); err != nil {
				s.logger.Error().Err(err).Int("count", len(items)).Msg("failed to cache fetched menu")
				return nil, err
			}
		}
	}

	s.logger.Debug().Int("count", len(items)).Msg("built menu sections")

	return menu.BuildSections(items), nil
}

// Search returns matching items grouped by category.
func (s *menuService) Search(ctx context.Context, text string, selected []string) ([]model.Section, error) {
	if err := s.cache.EnsureReady(ctx); err != nil {
		s.logger.Error().Err(err).Msg("menu cache unavailable")
		return nil, err
	}

	active := menu.ActiveCategories(s.categories, selected)
	items := s.cache.Query(ctx, text, active)

	s.logger.Debug().
		Str("text", text).
		Strs("active_categories", active).
		Int("count", len(items)).
		Msg("searched menu")

	return menu.BuildSections(items), nil
}

// Refresh refetches the remote feed and replaces the cached snapshot.
func (s *menuService) Refresh(ctx context.Context) (int, error) {
	if err := s.prepare(ctx); err != nil {
		return 0, err
	}

	items := s.fetch(ctx)
	if len(items) == 0 {
		s.logger.Info().Msg("remote feed returned nothing to cache, keeping current snapshot")
		return 0, nil
	}

	if err := s.cache.ReplaceAll(ctx, items); err != nil {
		s.logger.Error().Err(err).Int("count", len(items)).Msg("failed to refresh menu cache")
		return 0, err
	}

	s.logger.Info().Int("count", len(items)).Msg("menu cache refreshed")

	return len(items), nil
}

// Categories returns the known menu categories.
func (s *menuService) Categories() []string {
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// prepare opens the cache and makes sure the table exists.
// Schema errors are logged and otherwise ignored; reads degrade to empty.
func (s *menuService) prepare(ctx context.Context) error {
	if err := s.cache.EnsureReady(ctx); err != nil {
		s.logger.Error().Err(err).Msg("menu cache unavailable")
		return err
	}

	if err := s.cache.CreateSchema(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("continuing without menu schema")
	}

	return nil
}

// fetch loads the remote feed. A failed fetch yields an empty list.
func (s *menuService) fetch(ctx context.Context) []model.MenuItem {
	items, err := s.loader.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("source", s.loader.Name()).Msg("failed to fetch menu feed")
		return []model.MenuItem{}
	}
	return items
}

package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"little-lemon/internal/model"

	"github.com/rs/zerolog"
)

// fallbackLoader tries each loader in order and returns the first success.
type fallbackLoader struct {
	loaders []Loader
	logger  zerolog.Logger
}

// NewFallbackLoader creates a loader that tries loaders in order.
// Nil loaders are skipped.
func NewFallbackLoader(logger zerolog.Logger, loaders ...Loader) Loader {
	active := make([]Loader, 0, len(loaders))
	for _, loader := range loaders {
		if loader != nil {
			active = append(active, loader)
		}
	}

	return &fallbackLoader{
		loaders: active,
		logger:  logger.With().Str("component", "fallback-feed-loader").Logger(),
	}
}

func (l *fallbackLoader) Name() string {
	names := make([]string, len(l.loaders))
	for i, loader := range l.loaders {
		names[i] = loader.Name()
	}
	return "fallback(" + strings.Join(names, ",") + ")"
}

// Load returns the result of the first loader that succeeds.
func (l *fallbackLoader) Load(ctx context.Context) ([]model.MenuItem, error) {
	if len(l.loaders) == 0 {
		return nil, errors.New("no menu feed sources configured")
	}

	var errs []error
	for _, loader := range l.loaders {
		items, err := loader.Load(ctx)
		if err == nil {
			l.logger.Debug().Str("source", loader.Name()).Msg("menu feed source succeeded")
			return items, nil
		}

		l.logger.Warn().
			Err(err).
			Str("source", loader.Name()).
			Msg("menu feed source failed, trying next")
		errs = append(errs, fmt.Errorf("%s: %w", loader.Name(), err))
	}

	return nil, fmt.Errorf("all menu feed sources failed: %w", errors.Join(errs...))
}

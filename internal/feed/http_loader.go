package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"little-lemon/internal/model"

	"github.com/rs/zerolog"
)

// maxFeedBytes caps the size of a fetched menu document.
const maxFeedBytes = 8 << 20

// httpLoader implements Loader with a single HTTP GET.
type httpLoader struct {
	url          string
	imageBaseURL string
	client       *http.Client
	maxBytes     int64
	logger       zerolog.Logger
}

// NewHTTPLoader creates a loader for the menu document at url.
func NewHTTPLoader(url, imageBaseURL string, timeout time.Duration, logger zerolog.Logger) Loader {
	return &httpLoader{
		url:          url,
		imageBaseURL: imageBaseURL,
		client:       &http.Client{Timeout: timeout},
		maxBytes:     maxFeedBytes,
		logger:       logger.With().Str("component", "http-feed-loader").Logger(),
	}
}

func (l *httpLoader) Name() string {
	return "http"
}

// Load fetches and maps the menu document.
func (l *httpLoader) Load(ctx context.Context) ([]model.MenuItem, error) {
	l.logger.Info().Str("url", l.url).Msg("fetching menu feed")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build menu feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Error().Err(err).Str("url", l.url).Msg("failed to fetch menu feed")
		return nil, fmt.Errorf("failed to fetch menu feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		l.logger.Error().Int("status", resp.StatusCode).Str("url", l.url).Msg("unexpected menu feed status")
		return nil, fmt.Errorf("unexpected menu feed status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		l.logger.Error().Err(err).Str("url", l.url).Msg("failed to read menu feed")
		return nil, fmt.Errorf("failed to read menu feed: %w", err)
	}
	if int64(len(body)) > l.maxBytes {
		l.logger.Error().Int64("limit", l.maxBytes).Str("url", l.url).Msg("menu feed too large")
		return nil, fmt.Errorf("menu feed exceeds %d bytes", l.maxBytes)
	}

	items, err := Decode(bytes.NewReader(body), l.imageBaseURL)
	if err != nil {
		l.logger.Error().Err(err).Str("url", l.url).Msg("failed to decode menu feed")
		return nil, err
	}

	l.logger.Info().
		Str("url", l.url).
		Int("items", len(items)).
		Msg("menu feed fetched successfully")

	return items, nil
}

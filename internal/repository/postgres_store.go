package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"little-lemon/internal/config"
	"little-lemon/internal/database"
	"little-lemon/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// postgresStore implements MenuStore using PostgreSQL.
type postgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore wraps a connection pool as a MenuStore.
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) MenuStore {
	return &postgresStore{
		pool:   pool,
		logger: logger.With().Str("store", "postgres").Logger(),
	}
}

// NewPostgresOpener returns an Opener that creates a connection pool from cfg.
func NewPostgresOpener(cfg config.DatabaseConfig, logger zerolog.Logger) Opener {
	return func(ctx context.Context) (MenuStore, error) {
		pool, err := database.NewPool(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool, logger), nil
	}
}

// CreateSchema creates the menu table if it does not exist.
func (s *postgresStore) CreateSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS menuitems (
			id BIGSERIAL PRIMARY KEY,
			external_id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			price TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_menuitems_category ON menuitems(category);
	`

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create menuitems table: %w", err)
	}

	s.logger.Debug().Msg("menu schema ensured")

	return nil
}

// LoadAll returns every row in id order.
func (s *postgresStore) LoadAll(ctx context.Context) ([]model.MenuItem, error) {
	query := `
		SELECT id, external_id, title, price, description, category, image_url
		FROM menuitems
		ORDER BY id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}

	return scanPostgresRows(rows)
}

// ReplaceAll deletes every row and inserts items in one transaction.
func (s *postgresStore) ReplaceAll(ctx context.Context, items []model.MenuItem) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM menuitems`); err != nil {
		return fmt.Errorf("failed to clear menu items: %w", err)
	}

	if len(items) > 0 {
		query := `
			INSERT INTO menuitems (external_id, title, price, description, category, image_url)
			VALUES ($1, $2, $3, $4, $5, $6)
		`

		batch := &pgx.Batch{}
		for _, item := range items {
			batch.Queue(query, item.ExternalID, item.Title, item.Price, item.Description, item.Category, item.ImageURL)
		}

		if err = execBatch(tx.SendBatch(ctx, batch), items); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit menu snapshot: %w", err)
	}

	return nil
}

func execBatch(results pgx.BatchResults, items []model.MenuItem) error {
	defer results.Close()

	for i := range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert menu item %s: %w", items[i].ExternalID, err)
		}
	}

	return results.Close()
}

// Query returns rows whose title matches pattern and whose category is in categories.
// Folding under the C collation lowers ASCII letters only, as SQLite LIKE does.
func (s *postgresStore) Query(ctx context.Context, pattern string, categories []string) ([]model.MenuItem, error) {
	if len(categories) == 0 {
		return []model.MenuItem{}, nil
	}

	query := `
		SELECT id, external_id, title, price, description, category, image_url
		FROM menuitems
		WHERE lower(title COLLATE "C") LIKE lower($1::text COLLATE "C") ESCAPE '\'
			AND category = ANY($2)
		ORDER BY id
	`

	rows, err := s.pool.Query(ctx, query, pattern, categories)
	if err != nil {
		return nil, fmt.Errorf("failed to filter menu items: %w", err)
	}

	return scanPostgresRows(rows)
}

// Close closes the connection pool.
func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanPostgresRows(rows pgx.Rows) ([]model.MenuItem, error) {
	defer rows.Close()

	items := []model.MenuItem{}
	for rows.Next() {
		var (
			id   int64
			item model.MenuItem
		)
		err := rows.Scan(&id, &item.ExternalID, &item.Title, &item.Price, &item.Description, &item.Category, &item.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		item.ID = strconv.FormatInt(id, 10)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return items, nil
}

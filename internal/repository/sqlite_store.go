package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"little-lemon/internal/database"
	"little-lemon/internal/model"

	"github.com/rs/zerolog"
)

// sqliteStore implements MenuStore on a SQLite database file.
type sqliteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStore wraps an open SQLite handle as a MenuStore.
func NewSQLiteStore(db *sql.DB, logger zerolog.Logger) MenuStore {
	return &sqliteStore{
		db:     db,
		logger: logger.With().Str("store", "sqlite").Logger(),
	}
}

// NewSQLiteOpener returns an Opener for the SQLite file at path.
func NewSQLiteOpener(path string, logger zerolog.Logger) Opener {
	return func(ctx context.Context) (MenuStore, error) {
		db, err := database.OpenSQLite(ctx, path, logger)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db, logger), nil
	}
}

// CreateSchema creates the menu table if it does not exist.
func (s *sqliteStore) CreateSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS menuitems (
			id INTEGER PRIMARY KEY NOT NULL,
			external_id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			price TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_menuitems_category ON menuitems(category);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create menuitems table: %w", err)
	}

	s.logger.Debug().Msg("menu schema ensured")

	return nil
}

// LoadAll returns every row in id order.
func (s *sqliteStore) LoadAll(ctx context.Context) ([]model.MenuItem, error) {
	query := `
		SELECT id, external_id, title, price, description, category, image_url
		FROM menuitems
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}

	return scanSQLiteRows(rows)
}

// ReplaceAll deletes every row and inserts items in one transaction.
func (s *sqliteStore) ReplaceAll(ctx context.Context, items []model.MenuItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback is a no-op once the transaction has committed.
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM menuitems`); err != nil {
		return fmt.Errorf("failed to clear menu items: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO menuitems (external_id, title, price, description, category, image_url)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare menu insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		_, err := stmt.ExecContext(ctx,
			item.ExternalID,
			item.Title,
			item.Price,
			item.Description,
			item.Category,
			item.ImageURL,
		)
		if err != nil {
			return fmt.Errorf("failed to insert menu item %s: %w", item.ExternalID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit menu snapshot: %w", err)
	}

	return nil
}

// Query returns rows whose title matches pattern and whose category is in categories.
func (s *sqliteStore) Query(ctx context.Context, pattern string, categories []string) ([]model.MenuItem, error) {
	if len(categories) == 0 {
		return []model.MenuItem{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(categories)), ", ")
	query := `
		SELECT id, external_id, title, price, description, category, image_url
		FROM menuitems
		WHERE title LIKE ? ESCAPE '\' AND category IN (` + placeholders + `)
		ORDER BY id
	`

	args := make([]interface{}, 0, len(categories)+1)
	args = append(args, pattern)
	for _, category := range categories {
		args = append(args, category)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter menu items: %w", err)
	}

	return scanSQLiteRows(rows)
}

// Close closes the database handle.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func scanSQLiteRows(rows *sql.Rows) ([]model.MenuItem, error) {
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

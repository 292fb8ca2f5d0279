package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"little-lemon/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresCache starts a PostgreSQL testcontainer and returns a ready menu cache.
func setupPostgresCache(t *testing.T) MenuCache {
	if testing.Short() {
		t.Skip("skipping postgres container test")
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pgContainer.Terminate(ctx)
	})

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	opener := func(ctx context.Context) (MenuStore, error) {
		pool, err := pgxpool.New(ctx, connStr)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool, zerolog.Nop()), nil
	}

	cache := NewMenuCache(opener, zerolog.Nop())
	require.NoError(t, cache.EnsureReady(ctx))
	require.NoError(t, cache.CreateSchema(ctx))
	t.Cleanup(func() {
		_ = cache.Close()
	})

	return cache
}

func TestPostgresCache(t *testing.T) {
	cache := setupPostgresCache(t)
	ctx := context.Background()

	t.Run("CreateSchema is idempotent", func(t *testing.T) {
		require.NoError(t, cache.CreateSchema(ctx))
	})

	t.Run("GetAll on empty table", func(t *testing.T) {
		require.NoError(t, cache.ReplaceAll(ctx, []model.MenuItem{}))

		items := cache.GetAll(ctx)

		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("ReplaceAll then GetAll", func(t *testing.T) {
		menu := greekMenu()
		require.NoError(t, cache.ReplaceAll(ctx, menu))

		items := cache.GetAll(ctx)

		assert.Equal(t, menu, withoutIDs(items))
		assertIDOrder(t, items)
	})

	t.Run("Failed replace keeps previous snapshot", func(t *testing.T) {
		menu := greekMenu()
		require.NoError(t, cache.ReplaceAll(ctx, menu))

		err := cache.ReplaceAll(ctx, []model.MenuItem{
			{ExternalID: "dup", Title: "Pasta", Price: "9", Category: "mains"},
			{ExternalID: "dup", Title: "Pasta Again", Price: "9", Category: "mains"},
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrWrite))
		assert.Equal(t, menu, withoutIDs(cache.GetAll(ctx)))
	})

	t.Run("Query is case-insensitive substring", func(t *testing.T) {
		require.NoError(t, cache.ReplaceAll(ctx, greekMenu()))

		assert.Equal(t, []string{"a", "b"}, externalIDs(cache.Query(ctx, "Greek", allCategories)))
		assert.Equal(t, []string{"a", "b"}, externalIDs(cache.Query(ctx, "greek", allCategories)))
		assert.Equal(t, []string{"a", "b", "c"}, externalIDs(cache.Query(ctx, "", allCategories)))
		assert.Equal(t, []string{"b"}, externalIDs(cache.Query(ctx, "greek", []string{"desserts"})))
		assert.Empty(t, cache.Query(ctx, "", []string{}))
		assert.Empty(t, cache.Query(ctx, "%", allCategories))
	})

	t.Run("Query folds ASCII case only", func(t *testing.T) {
		require.NoError(t, cache.ReplaceAll(ctx, accentedMenu()))

		assert.Equal(t, []string{"1"}, externalIDs(cache.Query(ctx, "crème", allCategories)))
		assert.Equal(t, []string{"2"}, externalIDs(cache.Query(ctx, "CRÈME", allCategories)))
		assert.Equal(t, []string{"1", "2"}, externalIDs(cache.Query(ctx, "cr", allCategories)))
	})
}

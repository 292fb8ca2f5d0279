package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"little-lemon/internal/config"
	"little-lemon/internal/database"
	"little-lemon/internal/feed"
	"little-lemon/internal/handler"
	"little-lemon/internal/repository"
	"little-lemon/internal/router"
	"little-lemon/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testAPIKey    = "test-api-key"
	testImageBase = "https://img.example.com/images/"
)

var testCategories = []string{"starters", "mains", "desserts"}

const menuFeed = `{
	"menu": [
		{"name": "Greek Salad", "price": 12.99, "description": "Crispy lettuce", "image": "greekSalad.jpg", "category": "starters"},
		{"name": "Bruschetta", "price": 7.99, "description": "Grilled bread", "image": "bruschetta.jpg", "category": "starters"},
		{"name": "Grilled Fish", "price": 20, "description": "Catch of the day", "image": "grilledFish.jpg", "category": "mains"},
		{"name": "Greek Yogurt Cake", "price": 5.5, "description": "Honey and walnuts", "image": "yogurtCake.jpg", "category": "desserts"}
	]
}`

// FeedServer serves a menu feed document and counts the requests it receives.
type FeedServer struct {
	*httptest.Server

	mu     sync.Mutex
	body   string
	status int
	hits   atomic.Int32
}

// NewFeedServer starts a feed server returning body with status 200.
func NewFeedServer(t *testing.T, body string) *FeedServer {
	t.Helper()

	fs := &FeedServer{body: body, status: http.StatusOK}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.hits.Add(1)

		fs.mu.Lock()
		body, status := fs.body, fs.status
		fs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(fs.Close)

	return fs
}

// Set changes the response served from now on.
func (fs *FeedServer) Set(status int, body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.status = status
	fs.body = body
}

// Hits returns the number of feed requests served.
func (fs *FeedServer) Hits() int {
	return int(fs.hits.Load())
}

// TestApp is a fully wired menu API backed by a real cache store.
type TestApp struct {
	Handler http.Handler
	Cache   repository.MenuCache
}

// NewTestApp wires cache, feed, service, handler and router the same way the server does.
func NewTestApp(t *testing.T, opener repository.Opener, feedURL string) *TestApp {
	t.Helper()

	logger := zerolog.Nop()

	cache := repository.NewMenuCache(opener, logger)
	t.Cleanup(func() {
		_ = cache.Close()
	})

	loader := feed.NewFallbackLoader(logger,
		feed.NewHTTPLoader(feedURL, testImageBase, 5*time.Second, logger),
	)

	menuService := service.NewMenuService(cache, loader, testCategories, logger)
	menuHandler := handler.NewMenuHandler(menuService, logger)

	return &TestApp{
		Handler: router.New(menuHandler, testAPIKey, logger),
		Cache:   cache,
	}
}

// SQLitePath returns a cache file location inside a per-test directory.
func SQLitePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "little_lemon.db")
}

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	return &TestDB{
		Container: postgresContainer,
		ConnStr:   connStr,
	}
}

// Opener returns a cache opener that connects a fresh pool to the container.
func (db *TestDB) Opener() repository.Opener {
	poolConfig := config.DatabaseConfig{
		MaxConnections:  5,
		MinConnections:  1,
		MaxConnLifetime: 300,
	}

	return func(ctx context.Context) (repository.MenuStore, error) {
		pool, err := database.NewPoolFromURL(ctx, db.ConnStr, poolConfig, zerolog.Nop())
		if err != nil {
			return nil, err
		}
		return repository.NewPostgresStore(pool, zerolog.Nop()), nil
	}
}

// DropMenuTable removes the cache table so each scenario starts cold.
func (db *TestDB) DropMenuTable(t *testing.T) {
	t.Helper()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, db.ConnStr)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS menuitems"); err != nil {
		t.Fatalf("failed to drop menu table: %v", err)
	}
}

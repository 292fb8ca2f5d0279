package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"little-lemon/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMenuStore is a mock implementation of MenuStore.
type MockMenuStore struct {
	mock.Mock
}

func (m *MockMenuStore) CreateSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMenuStore) LoadAll(ctx context.Context) ([]model.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockMenuStore) ReplaceAll(ctx context.Context, items []model.MenuItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockMenuStore) Query(ctx context.Context, pattern string, categories []string) ([]model.MenuItem, error) {
	args := m.Called(ctx, pattern, categories)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockMenuStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// readyCache returns a cache whose store is already opened.
func readyCache(t *testing.T, store MenuStore) MenuCache {
	t.Helper()

	cache := NewMenuCache(func(ctx context.Context) (MenuStore, error) {
		return store, nil
	}, zerolog.Nop())
	require.NoError(t, cache.EnsureReady(context.Background()))
	return cache
}

func TestMenuCache_EnsureReady_ConcurrentCallersShareOneOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "menu.db")

	var opens atomic.Int32
	release := make(chan struct{})
	opener := func(ctx context.Context) (MenuStore, error) {
		opens.Add(1)
		<-release
		return NewSQLiteOpener(path, zerolog.Nop())(ctx)
	}

	cache := NewMenuCache(opener, zerolog.Nop())
	defer cache.Close()

	const callers = 5
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- cache.EnsureReady(ctx)
		}()
	}

	require.Eventually(t, func() bool { return opens.Load() == 1 }, time.Second, time.Millisecond)
	// Give the remaining callers time to attach to the in-flight open
	time.Sleep(20 * time.Millisecond)
	close(release)

	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), opens.Load())

	// Later calls reuse the open store
	require.NoError(t, cache.EnsureReady(ctx))
	assert.Equal(t, int32(1), opens.Load())
}

func TestMenuCache_EnsureReady_FailureIsRetried(t *testing.T) {
	ctx := context.Background()
	store := new(MockMenuStore)

	var opens atomic.Int32
	opener := func(ctx context.Context) (MenuStore, error) {
		if opens.Add(1) == 1 {
			return nil, errors.New("disk unavailable")
		}
		return store, nil
	}

	cache := NewMenuCache(opener, zerolog.Nop())

	err := cache.EnsureReady(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInitialization))
	assert.Contains(t, err.Error(), "disk unavailable")

	require.NoError(t, cache.EnsureReady(ctx))
	assert.Equal(t, int32(2), opens.Load())
}

func TestMenuCache_EnsureReady_CancelledCallerDoesNotAbortOpen(t *testing.T) {
	store := new(MockMenuStore)
	cache := NewMenuCache(func(ctx context.Context) (MenuStore, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return store, nil
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, cache.EnsureReady(ctx))
}

func TestMenuCache_OperationsBeforeReady(t *testing.T) {
	ctx := context.Background()
	cache := NewMenuCache(func(ctx context.Context) (MenuStore, error) {
		return nil, errors.New("never called")
	}, zerolog.Nop())

	assert.Empty(t, cache.GetAll(ctx))
	assert.NotNil(t, cache.GetAll(ctx))
	assert.Empty(t, cache.Query(ctx, "", []string{"mains"}))

	err := cache.CreateSchema(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrSchema))
	assert.True(t, errors.Is(err, model.ErrInitialization))

	err = cache.ReplaceAll(ctx, []model.MenuItem{{ExternalID: "1"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrWrite))
	assert.True(t, errors.Is(err, model.ErrInitialization))

	assert.NoError(t, cache.Close())
}

func TestMenuCache_CreateSchema(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		storeError  error
		expectError bool
	}{
		{
			name:        "Success",
			storeError:  nil,
			expectError: false,
		},
		{
			name:        "Store error becomes schema error",
			storeError:  errors.New("read-only file system"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockMenuStore)
			store.On("CreateSchema", mock.Anything).Return(tt.storeError)
			cache := readyCache(t, store)

			err := cache.CreateSchema(ctx)

			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, model.ErrSchema))
				assert.True(t, errors.Is(err, tt.storeError))
			} else {
				require.NoError(t, err)
			}

			store.AssertExpectations(t)
		})
	}
}

func TestMenuCache_GetAll_ReadErrorDegradesToEmpty(t *testing.T) {
	store := new(MockMenuStore)
	store.On("LoadAll", mock.Anything).Return(nil, errors.New("no such table: menuitems"))
	cache := readyCache(t, store)

	items := cache.GetAll(context.Background())

	assert.NotNil(t, items)
	assert.Empty(t, items)
	store.AssertExpectations(t)
}

func TestMenuCache_ReplaceAll_PropagatesWriteError(t *testing.T) {
	items := []model.MenuItem{{ExternalID: "1", Title: "Pasta"}}
	cause := errors.New("constraint failed")

	store := new(MockMenuStore)
	store.On("ReplaceAll", mock.Anything, items).Return(cause)
	cache := readyCache(t, store)

	err := cache.ReplaceAll(context.Background(), items)

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrWrite))
	assert.True(t, errors.Is(err, cause))
	store.AssertExpectations(t)
}

func TestMenuCache_Query(t *testing.T) {
	ctx := context.Background()
	matched := []model.MenuItem{{ID: "1", Title: "Greek Salad", Category: "starters"}}

	t.Run("Empty categories never reach the store", func(t *testing.T) {
		store := new(MockMenuStore)
		cache := readyCache(t, store)

		items := cache.Query(ctx, "Greek", nil)

		assert.NotNil(t, items)
		assert.Empty(t, items)
		store.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Text is passed as an escaped contains pattern", func(t *testing.T) {
		store := new(MockMenuStore)
		store.On("Query", mock.Anything, `%50\% off%`, []string{"starters"}).Return(matched, nil)
		cache := readyCache(t, store)

		items := cache.Query(ctx, "50% off", []string{"starters"})

		assert.Equal(t, matched, items)
		store.AssertExpectations(t)
	})

	t.Run("Read error degrades to empty", func(t *testing.T) {
		store := new(MockMenuStore)
		store.On("Query", mock.Anything, "%%", []string{"starters"}).Return(nil, errors.New("database is locked"))
		cache := readyCache(t, store)

		items := cache.Query(ctx, "", []string{"starters"})

		assert.NotNil(t, items)
		assert.Empty(t, items)
		store.AssertExpectations(t)
	})
}

func TestMenuCache_Close(t *testing.T) {
	store := new(MockMenuStore)
	store.On("Close").Return(nil).Once()
	cache := readyCache(t, store)

	require.NoError(t, cache.Close())
	// Second close is a no-op
	require.NoError(t, cache.Close())

	store.AssertExpectations(t)
}

func TestMenuCache_CloseDuringOpenReleasesStore(t *testing.T) {
	store := new(MockMenuStore)
	store.On("Close").Return(nil).Once()

	started := make(chan struct{})
	release := make(chan struct{})
	cache := NewMenuCache(func(ctx context.Context) (MenuStore, error) {
		close(started)
		<-release
		return store, nil
	}, zerolog.Nop())

	result := make(chan error, 1)
	go func() {
		result <- cache.EnsureReady(context.Background())
	}()

	<-started
	require.NoError(t, cache.Close())
	close(release)

	err := <-result
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInitialization))

	store.AssertExpectations(t)
	assert.Empty(t, cache.GetAll(context.Background()))
	store.AssertNotCalled(t, "LoadAll", mock.Anything)
}

func TestMenuCache_EnsureReadyAfterClose(t *testing.T) {
	var opens atomic.Int32
	cache := NewMenuCache(func(ctx context.Context) (MenuStore, error) {
		opens.Add(1)
		return new(MockMenuStore), nil
	}, zerolog.Nop())

	require.NoError(t, cache.Close())

	err := cache.EnsureReady(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInitialization))
	assert.Equal(t, int32(0), opens.Load())
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{text: "", expected: "%%"},
		{text: "Greek", expected: "%Greek%"},
		{text: "100%", expected: `%100\%%`},
		{text: "a_b", expected: `%a\_b%`},
		{text: `back\slash`, expected: `%back\\slash%`},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContainsPattern(tt.text))
		})
	}
}

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/mood-quote-service/internal/domain"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/config"
)

// runStoreContract exercises behavior every backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()

	t.Run("get missing key returns not found", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Get(context.Background(), "missing")

		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("set then get round trips", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "moodquote:s1:current_quote", []byte(`{"id":"a"}`)))

		got, err := s.Get(ctx, "moodquote:s1:current_quote")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"a"}`, string(got))
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "k", []byte("one")))
		require.NoError(t, s.Set(ctx, "k", []byte("two")))

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "two", string(got))
	})

	t.Run("delete removes and tolerates missing keys", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "k", []byte("v")))
		require.NoError(t, s.Delete(ctx, "k"))
		require.NoError(t, s.Delete(ctx, "never-set"))

		_, err := s.Get(ctx, "k")
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("keys are independent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "moodquote:a:quote_history", []byte("a")))
		require.NoError(t, s.Set(ctx, "moodquote:b:quote_history", []byte("b")))

		got, err := s.Get(ctx, "moodquote:a:quote_history")
		require.NoError(t, err)
		assert.Equal(t, "a", string(got))
	})

	t.Run("health check passes", func(t *testing.T) {
		s := newStore(t)

		assert.Equal(t, "state-store", s.Name())
		assert.NoError(t, s.Check(context.Background()))
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	buf := []byte("original")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'X'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))

	got[0] = 'Y'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, "original", string(again))
}

func TestMemoryStore_Closed(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Close())

	_, err := s.Get(context.Background(), "k")
	assert.True(t, domain.IsUnavailable(err))
	assert.True(t, domain.IsUnavailable(s.Set(context.Background(), "k", nil)))
	assert.Error(t, s.Check(context.Background()))
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSQLiteStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		s, err := NewSQLiteStore(context.Background(), ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", []byte("kept")))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "kept", string(got))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, &config.StorageConfig{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(ctx, &config.StorageConfig{
		Backend: BackendSQLite,
		SQLite:  config.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	_ = s.Close()

	_, err = New(ctx, &config.StorageConfig{Backend: "etcd"})
	require.ErrorIs(t, err, ErrUnknownBackend)

	_, err = New(ctx, &config.StorageConfig{Backend: BackendRedis, Redis: config.RedisConfig{URL: "not a url"}})
	assert.Error(t, err)
}

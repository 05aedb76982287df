package credentials

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "credentials.json"))
	require.NoError(t, err)
	_, rdb := newTestRedis(t)

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"redis":  NewRedisStore(rdb, "test:credentials"),
	}
}

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Load(ctx)
			require.NoError(t, err)
			assert.False(t, ok, "fresh store must be empty")

			require.NoError(t, store.Save(ctx, "A1", "R1"))
			pair, ok, err := store.Load(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, Pair{AccessToken: "A1", RefreshToken: "R1"}, pair)

			require.NoError(t, store.Save(ctx, "A2", "R2"))
			pair, _, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, Pair{AccessToken: "A2", RefreshToken: "R2"}, pair)

			require.NoError(t, store.Clear(ctx))
			_, ok, err = store.Load(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Clear(ctx), "clearing an empty store is a no-op")
			assert.NotEmpty(t, store.Name())
		})
	}
}

func TestStoreRejectsHalfPair(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Save(ctx, "A1", "R1"))

			assert.ErrorIs(t, store.Save(ctx, "A2", ""), ErrIncompletePair)
			assert.ErrorIs(t, store.Save(ctx, "", "R2"), ErrIncompletePair)

			pair, ok, err := store.Load(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, Pair{AccessToken: "A1", RefreshToken: "R1"}, pair, "rejected save must not touch the stored pair")
		})
	}
}

func TestStoreConcurrentSavesNeverMixPairs(t *testing.T) {
	ctx := context.Background()
	pairs := []Pair{{"A1", "R1"}, {"A2", "R2"}, {"A3", "R3"}, {"A4", "R4"}}

	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < 40; i++ {
				wg.Add(1)
				go func(p Pair) {
					defer wg.Done()
					assert.NoError(t, store.Save(ctx, p.AccessToken, p.RefreshToken))
				}(pairs[i%len(pairs)])
			}
			wg.Wait()

			got, ok, err := store.Load(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Contains(t, pairs, got)
		})
	}
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "A1", "R1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.Equal(t, "FileStore("+path+")", store.Name())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, _, err = store.Load(context.Background())
	assert.ErrorContains(t, err, "decode json")
}

func TestNewFileStoreRequiresPath(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestRedisStoreWritesSingleHash(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewRedisStore(rdb, "admin:creds")

	require.NoError(t, store.Save(context.Background(), "A1", "R1"))

	assert.Equal(t, "A1", mr.HGet("admin:creds", "access_token"))
	assert.Equal(t, "R1", mr.HGet("admin:creds", "refresh_token"))
}

func TestOpenRedisStore(t *testing.T) {
	mr, _ := newTestRedis(t)

	store, err := OpenRedisStore(context.Background(), "redis://"+mr.Addr()+"/0", "k")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(context.Background(), "A", "R"))
	assert.True(t, mr.Exists("k"))

	_, err = OpenRedisStore(context.Background(), "not a url", "k")
	assert.Error(t, err)
}

package credentials

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubQuerier emulates the admin_credentials table keyed by profile.
type stubQuerier struct {
	mu      sync.Mutex
	rows    map[string]Pair
	execErr error
	queries []string
}

type stubRow struct {
	pair Pair
	err  error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.pair.AccessToken
	*(dest[1].(*string)) = r.pair.RefreshToken
	return nil
}

func (s *stubQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, sql)
	if s.execErr != nil {
		return pgconn.CommandTag{}, s.execErr
	}
	switch {
	case strings.Contains(sql, "insert into admin_credentials"):
		s.rows[args[0].(string)] = Pair{AccessToken: args[1].(string), RefreshToken: args[2].(string)}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.Contains(sql, "delete from admin_credentials"):
		delete(s.rows, args[0].(string))
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (s *stubQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	pair, ok := s.rows[args[0].(string)]
	if !ok {
		return stubRow{err: pgx.ErrNoRows}
	}
	return stubRow{pair: pair}
}

func TestPostgresStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	db := &stubQuerier{rows: map[string]Pair{}}
	store := newPostgresStore(db, "ops")

	require.NoError(t, store.EnsureSchema(ctx))
	assert.Contains(t, db.queries[0], "create table if not exists admin_credentials")

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, "A1", "R1"))
	pair, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Pair{AccessToken: "A1", RefreshToken: "R1"}, pair)

	require.NoError(t, store.Clear(ctx))
	_, ok, err = store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, "PostgresStore(ops)", store.Name())
}

func TestPostgresStoreProfilesAreIsolated(t *testing.T) {
	ctx := context.Background()
	db := &stubQuerier{rows: map[string]Pair{}}

	require.NoError(t, newPostgresStore(db, "a").Save(ctx, "A1", "R1"))
	_, ok, err := newPostgresStore(db, "b").Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresStoreWrapsErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")
	store := newPostgresStore(&stubQuerier{rows: map[string]Pair{}, execErr: boom}, "ops")

	err := store.Save(ctx, "A1", "R1")
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "postgres store: save")

	assert.ErrorIs(t, store.Clear(ctx), boom)
	assert.ErrorIs(t, store.Save(ctx, "", "R1"), ErrIncompletePair)
}

func TestInitPostgresStoreCreatesSchemaOnce(t *testing.T) {
	ctx := context.Background()
	db := &stubQuerier{rows: map[string]Pair{}}
	closed := 0

	store, err := initPostgresStore(ctx, db, "ops", func() { closed++ })
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "A1", "R1"))

	creates := 0
	for _, q := range db.queries {
		if strings.Contains(q, "create table") {
			creates++
		}
	}
	assert.Equal(t, 1, creates)

	store.Close()
	assert.Equal(t, 1, closed)
}

func TestInitPostgresStoreClosesOnSchemaError(t *testing.T) {
	db := &stubQuerier{rows: map[string]Pair{}, execErr: errors.New("permission denied")}
	closed := 0

	_, err := initPostgresStore(context.Background(), db, "ops", func() { closed++ })
	assert.ErrorContains(t, err, "create table")
	assert.Equal(t, 1, closed)
}

package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createCredentialsTable = `
create table if not exists admin_credentials (
  profile       text primary key,
  access_token  text not null,
  refresh_token text not null,
  updated_at    timestamptz not null default now()
);`

const upsertCredentials = `
insert into admin_credentials (profile, access_token, refresh_token, updated_at)
values ($1, $2, $3, now())
on conflict (profile) do update
  set access_token = excluded.access_token,
      refresh_token = excluded.refresh_token,
      updated_at = now();`

const selectCredentials = `select access_token, refresh_token from admin_credentials where profile = $1;`

const deleteCredentials = `delete from admin_credentials where profile = $1;`

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps one credential row per profile.
type PostgresStore struct {
	db      pgQuerier
	profile string
	closeFn func()
}

// OpenPostgresStore connects with pgxpool and creates the table if needed.
func OpenPostgresStore(ctx context.Context, dsn, profile string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres store: connect: %w", err)
	}
	return initPostgresStore(ctx, pool, profile, pool.Close)
}

// initPostgresStore prepares the schema once; callers need not call EnsureSchema again.
func initPostgresStore(ctx context.Context, db pgQuerier, profile string, closeFn func()) (*PostgresStore, error) {
	store := newPostgresStore(db, profile)
	store.closeFn = closeFn
	if err := store.EnsureSchema(ctx); err != nil {
		closeFn()
		return nil, err
	}
	return store, nil
}

func newPostgresStore(db pgQuerier, profile string) *PostgresStore {
	return &PostgresStore{db: db, profile: profile}
}

// EnsureSchema creates the credentials table when missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, createCredentialsTable); err != nil {
		return fmt.Errorf("postgres store: create table: %w", err)
	}
	return nil
}

func (p *PostgresStore) Load(ctx context.Context) (Pair, bool, error) {
	var pair Pair
	err := p.db.QueryRow(ctx, selectCredentials, p.profile).Scan(&pair.AccessToken, &pair.RefreshToken)
	if errors.Is(err, pgx.ErrNoRows) {
		return Pair{}, false, nil
	}
	if err != nil {
		return Pair{}, false, fmt.Errorf("postgres store: load: %w", err)
	}
	return pair, true, nil
}

func (p *PostgresStore) Save(ctx context.Context, accessToken, refreshToken string) error {
	if err := validatePair(accessToken, refreshToken); err != nil {
		return err
	}
	if _, err := p.db.Exec(ctx, upsertCredentials, p.profile, accessToken, refreshToken); err != nil {
		return fmt.Errorf("postgres store: save: %w", err)
	}
	return nil
}

func (p *PostgresStore) Clear(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, deleteCredentials, p.profile); err != nil {
		return fmt.Errorf("postgres store: clear: %w", err)
	}
	return nil
}

func (p *PostgresStore) Name() string {
	return fmt.Sprintf("PostgresStore(%s)", p.profile)
}

// Close releases the pool opened by OpenPostgresStore.
func (p *PostgresStore) Close() {
	if p.closeFn != nil {
		p.closeFn()
	}
}

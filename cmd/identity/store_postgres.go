package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arathikrishnaam/dueDash/cmd/internal/apperr"
	"github.com/arathikrishnaam/dueDash/cmd/internal/storage"
)

// PostgresStore implements Store over PostgreSQL.
//
// The pgx pool is owned by the caller; this store must NOT close it.
// Table identifiers are quoted through pgx.Identifier.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

// WithSchema sets the Postgres schema holding the users table (default "public").
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("identity: empty schema")
		}
		if !storage.ValidIdentifier(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "public",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return st, nil
}

// CreateUser inserts a user. A duplicate username yields ConflictError{Field: "username"}.
func (s *PostgresStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	username := NormalizeUsername(in.Username)
	if !ValidUsername(username) {
		return User{}, apperr.OpError{Op: op, Kind: apperr.ErrInvalidInput, Msg: "invalid username"}
	}
	if strings.TrimSpace(in.PasswordHash) == "" {
		return User{}, apperr.OpError{Op: op, Kind: apperr.ErrInvalidInput, Msg: "missing password hash"}
	}
	now := normalizeNow(in.Now)

	users := storage.Ident(s.schema, "users")

	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO `+users+` (username, password_hash, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		username, in.PasswordHash, now,
	).Scan(&id)
	if err != nil {
		if _, ok := storage.UniqueViolation(err); ok {
			return User{}, apperr.ConflictError{Op: op, Field: "username"}
		}
		return User{}, apperr.Store(op, err)
	}

	return User{ID: id, Username: username, CreatedAt: now}, nil
}

// GetUserByUsername loads a user with its password digest.
func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (UserAuth, error) {
	const op = "identity.GetUserByUsername"

	users := storage.Ident(s.schema, "users")

	var out UserAuth
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at
		   FROM `+users+`
		  WHERE username = $1`,
		NormalizeUsername(username),
	).Scan(&out.ID, &out.Username, &out.PasswordHash, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserAuth{}, apperr.NotFoundError{Op: op, Resource: "user"}
		}
		return UserAuth{}, apperr.Store(op, err)
	}
	out.CreatedAt = out.CreatedAt.UTC()
	return out, nil
}

// CountUsers returns the number of registered users.
func (s *PostgresStore) CountUsers(ctx context.Context) (int64, error) {
	const op = "identity.CountUsers"

	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM `+storage.Ident(s.schema, "users")).Scan(&n); err != nil {
		return 0, apperr.Store(op, err)
	}
	return n, nil
}

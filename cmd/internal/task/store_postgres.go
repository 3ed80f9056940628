package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arathikrishnaam/dueDash/cmd/internal/apperr"
	"github.com/arathikrishnaam/dueDash/cmd/internal/storage"
)

// PostgresStore implements Store over PostgreSQL.
//
// The pool is owned by the caller. Update serializes on the task row with
// SELECT ... FOR UPDATE.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

// WithSchema sets the Postgres schema holding the tasks table (default "public").
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("task: empty schema")
		}
		if !storage.ValidIdentifier(schema) {
			return fmt.Errorf("task: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{pool: pool, schema: "public"}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("task: nil pool")
	}
	return st, nil
}

const pgTaskColumns = `id, user_id, title, description, due_time, completed, created_at, updated_at`

func (s *PostgresStore) tasks() string { return storage.Ident(s.schema, "tasks") }

// Create inserts a task for owner. An unknown owner yields NotFoundError{Resource: "user"}.
func (s *PostgresStore) Create(ctx context.Context, owner int64, in NewTask, now time.Time) (Task, error) {
	const op = "task.Create"

	row := s.pool.QueryRow(ctx,
		`INSERT INTO `+s.tasks()+` (user_id, title, description, due_time, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, false, $5, $5)
		 RETURNING `+pgTaskColumns,
		owner, in.Title, in.Description, in.DueTime, now,
	)
	t, err := scanTask(row)
	if err != nil {
		if storage.IsForeignKeyViolation(err) {
			return Task{}, apperr.NotFoundError{Op: op, Resource: "user"}
		}
		return Task{}, apperr.Store(op, err)
	}
	return t, nil
}

// List returns owner's tasks in category, oldest first.
func (s *PostgresStore) List(ctx context.Context, owner int64, category Category, now time.Time) ([]Task, error) {
	const op = "task.List"

	where, args := pgCategoryFilter(category, now, 2)
	q := `SELECT ` + pgTaskColumns + ` FROM ` + s.tasks() + ` WHERE user_id = $1`
	if where != "" {
		q += ` AND ` + where
	}
	q += ` ORDER BY id ASC`

	rows, err := s.pool.Query(ctx, q, append([]any{owner}, args...)...)
	if err != nil {
		return nil, apperr.Store(op, err)
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, apperr.Store(op, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(op, err)
	}
	return out, nil
}

// Get loads one of owner's tasks.
func (s *PostgresStore) Get(ctx context.Context, owner, id int64) (Task, error) {
	const op = "task.Get"

	t, err := scanTask(s.pool.QueryRow(ctx,
		`SELECT `+pgTaskColumns+` FROM `+s.tasks()+` WHERE id = $1 AND user_id = $2`,
		id, owner,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, apperr.NotFoundError{Op: op, Resource: "task"}
		}
		return Task{}, apperr.Store(op, err)
	}
	return t, nil
}

// Update applies p to one of owner's tasks in a single transaction.
func (s *PostgresStore) Update(ctx context.Context, owner, id int64, p Patch, now time.Time) (Task, error) {
	const op = "task.Update"

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return Task{}, apperr.Store(op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	t, err := scanTask(tx.QueryRow(ctx,
		`SELECT `+pgTaskColumns+` FROM `+s.tasks()+` WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		id, owner,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, apperr.NotFoundError{Op: op, Resource: "task"}
		}
		return Task{}, apperr.Store(op, err)
	}

	p.Apply(&t, now)

	_, err = tx.Exec(ctx,
		`UPDATE `+s.tasks()+`
		    SET title = $1, description = $2, due_time = $3, completed = $4, updated_at = $5
		  WHERE id = $6 AND user_id = $7`,
		t.Title, t.Description, t.DueTime, t.Completed, t.UpdatedAt, id, owner,
	)
	if err != nil {
		return Task{}, apperr.Store(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Task{}, apperr.Store(op, err)
	}
	return t, nil
}

// Delete removes one of owner's tasks.
func (s *PostgresStore) Delete(ctx context.Context, owner, id int64) error {
	const op = "task.Delete"

	tag, err := s.pool.Exec(ctx,
		`DELETE FROM `+s.tasks()+` WHERE id = $1 AND user_id = $2`,
		id, owner,
	)
	if err != nil {
		return apperr.Store(op, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundError{Op: op, Resource: "task"}
	}
	return nil
}

// CountByCategory counts all tasks per category at now.
func (s *PostgresStore) CountByCategory(ctx context.Context, now time.Time) (Counts, error) {
	const op = "task.CountByCategory"

	var c Counts
	err := s.pool.QueryRow(ctx,
		`SELECT
		   count(*) FILTER (WHERE completed),
		   count(*) FILTER (WHERE NOT completed AND (due_time IS NULL OR due_time >= $1)),
		   count(*) FILTER (WHERE NOT completed AND due_time IS NOT NULL AND due_time < $1)
		 FROM `+s.tasks(),
		now,
	).Scan(&c.Completed, &c.Pending, &c.Overdue)
	if err != nil {
		return Counts{}, apperr.Store(op, err)
	}
	return c, nil
}

// pgCategoryFilter returns the WHERE fragment for category with placeholders
// numbered from next.
func pgCategoryFilter(category Category, now time.Time, next int) (string, []any) {
	switch category {
	case CategoryCompleted:
		return `completed = true`, nil
	case CategoryPending:
		return fmt.Sprintf(`completed = false AND (due_time IS NULL OR due_time >= $%d)`, next), []any{now}
	case CategoryOverdue:
		return fmt.Sprintf(`completed = false AND due_time IS NOT NULL AND due_time < $%d`, next), []any{now}
	default:
		return "", nil
	}
}

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.DueTime,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return Task{}, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	if t.DueTime != nil {
		d := t.DueTime.UTC()
		t.DueTime = &d
	}
	return t, nil
}

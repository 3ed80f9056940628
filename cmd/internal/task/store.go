package task

import (
	"context"
	"time"
)

// Store is the task persistence boundary. Every method except CountByCategory
// is scoped to owner; rows owned by other users behave as absent.
type Store interface {
	Create(ctx context.Context, owner int64, in NewTask, now time.Time) (Task, error)
	List(ctx context.Context, owner int64, category Category, now time.Time) ([]Task, error)
	Get(ctx context.Context, owner, id int64) (Task, error)
	Update(ctx context.Context, owner, id int64, p Patch, now time.Time) (Task, error)
	Delete(ctx context.Context, owner, id int64) error

	// CountByCategory counts every task in the store.
	CountByCategory(ctx context.Context, now time.Time) (Counts, error)
}

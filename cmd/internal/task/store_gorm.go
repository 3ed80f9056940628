package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arathikrishnaam/dueDash/cmd/identity"
	"github.com/arathikrishnaam/dueDash/cmd/internal/apperr"
)

type taskRecord struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	UserID      int64      `gorm:"not null;index:idx_tasks_user_id"`
	Title       string     `gorm:"not null"`
	Description *string    `gorm:"type:text"`
	DueTime     *time.Time `gorm:"index:idx_tasks_due_time"`
	Completed   bool       `gorm:"not null;default:false"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`

	Owner identity.UserRecord `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (taskRecord) TableName() string { return "tasks" }

func (r taskRecord) task() Task {
	t := Task{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if r.DueTime != nil {
		d := r.DueTime.UTC()
		t.DueTime = &d
	}
	return t
}

// GormStore implements Store on top of GORM (SQLite in practice).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps db. The caller owns db.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("task: nil db")
	}
	return &GormStore{db: db}, nil
}

// Migrate creates or updates the users and tasks tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&identity.UserRecord{}, &taskRecord{}); err != nil {
		return fmt.Errorf("migrate tasks: %w", err)
	}
	return nil
}

// Create inserts a task for owner. An unknown owner yields NotFoundError{Resource: "user"}.
func (s *GormStore) Create(ctx context.Context, owner int64, in NewTask, now time.Time) (Task, error) {
	const op = "task.Create"

	rec := taskRecord{
		UserID:      owner,
		Title:       in.Title,
		Description: in.Description,
		DueTime:     in.DueTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return Task{}, apperr.NotFoundError{Op: op, Resource: "user"}
		}
		return Task{}, apperr.Store(op, err)
	}
	return rec.task(), nil
}

// List returns owner's tasks in category, oldest first.
func (s *GormStore) List(ctx context.Context, owner int64, category Category, now time.Time) ([]Task, error) {
	const op = "task.List"

	q := gormCategoryScope(s.db.WithContext(ctx).Where("user_id = ?", owner), category, now)

	var recs []taskRecord
	if err := q.Order("id ASC").Find(&recs).Error; err != nil {
		return nil, apperr.Store(op, err)
	}

	out := make([]Task, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.task())
	}
	return out, nil
}

// Get loads one of owner's tasks.
func (s *GormStore) Get(ctx context.Context, owner, id int64) (Task, error) {
	const op = "task.Get"

	rec, err := s.take(s.db.WithContext(ctx), owner, id)
	if err != nil {
		return Task{}, wrapTake(op, err)
	}
	return rec.task(), nil
}

// Update applies p to one of owner's tasks in a single transaction.
func (s *GormStore) Update(ctx context.Context, owner, id int64, p Patch, now time.Time) (Task, error) {
	const op = "task.Update"

	var out Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.take(tx.Clauses(clause.Locking{Strength: "UPDATE"}), owner, id)
		if err != nil {
			return err
		}

		t := rec.task()
		p.Apply(&t, now)

		rec.Title = t.Title
		rec.Description = t.Description
		rec.DueTime = t.DueTime
		rec.Completed = t.Completed
		rec.UpdatedAt = t.UpdatedAt

		if err := tx.Omit(clause.Associations).Save(&rec).Error; err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return Task{}, wrapTake(op, err)
	}
	return out, nil
}

// Delete removes one of owner's tasks.
func (s *GormStore) Delete(ctx context.Context, owner, id int64) error {
	const op = "task.Delete"

	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).Delete(&taskRecord{})
	if res.Error != nil {
		return apperr.Store(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundError{Op: op, Resource: "task"}
	}
	return nil
}

// CountByCategory counts all tasks per category at now.
func (s *GormStore) CountByCategory(ctx context.Context, now time.Time) (Counts, error) {
	const op = "task.CountByCategory"

	var row struct {
		Completed int64
		Pending   int64
		Overdue   int64
	}
	err := s.db.WithContext(ctx).Model(&taskRecord{}).Select(
		`COALESCE(SUM(CASE WHEN completed = ? THEN 1 ELSE 0 END), 0) AS completed,
		 COALESCE(SUM(CASE WHEN completed = ? AND (due_time IS NULL OR due_time >= ?) THEN 1 ELSE 0 END), 0) AS pending,
		 COALESCE(SUM(CASE WHEN completed = ? AND due_time IS NOT NULL AND due_time < ? THEN 1 ELSE 0 END), 0) AS overdue`,
		true, false, now, false, now,
	).Scan(&row).Error
	if err != nil {
		return Counts{}, apperr.Store(op, err)
	}
	return Counts(row), nil
}

func (s *GormStore) take(db *gorm.DB, owner, id int64) (taskRecord, error) {
	var rec taskRecord
	err := db.Where("id = ? AND user_id = ?", id, owner).Take(&rec).Error
	return rec, err
}

func wrapTake(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFoundError{Op: op, Resource: "task"}
	}
	return apperr.Store(op, err)
}

func gormCategoryScope(db *gorm.DB, category Category, now time.Time) *gorm.DB {
	switch category {
	case CategoryCompleted:
		return db.Where("completed = ?", true)
	case CategoryPending:
		return db.Where("completed = ? AND (due_time IS NULL OR due_time >= ?)", false, now)
	case CategoryOverdue:
		return db.Where("completed = ? AND due_time IS NOT NULL AND due_time < ?", false, now)
	default:
		return db
	}
}

package task

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/arathikrishnaam/dueDash/cmd/internal/apperr"
)

const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 10_000
)

// Service validates task input and runs it against a Store with one clock
// reading per operation.
type Service struct {
	store Store
	now   func() time.Time
	log   *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for task events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService builds a Service over store.
func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("task: nil store")
	}
	s := &Service{store: store, now: time.Now, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *Service) clock() time.Time { return Timestamp(s.now()) }

// Create validates in and stores a new, not completed task for owner.
func (s *Service) Create(ctx context.Context, owner int64, in NewTask) (Task, error) {
	title, err := validTitle(in.Title)
	if err != nil {
		return Task{}, err
	}
	if err := validDescription(in.Description); err != nil {
		return Task{}, err
	}

	in.Title = title
	if in.DueTime != nil {
		d := Timestamp(*in.DueTime)
		in.DueTime = &d
	}

	t, err := s.store.Create(ctx, owner, in, s.clock())
	if err != nil {
		return Task{}, err
	}
	s.log.Debug("task.create", "user_id", owner, "task_id", t.ID)
	return t, nil
}

// List returns owner's tasks in category, in creation order.
func (s *Service) List(ctx context.Context, owner int64, category Category) ([]Task, error) {
	if category == "" {
		category = CategoryAll
	}
	if _, err := ParseCategory(string(category)); err != nil {
		return nil, err
	}
	return s.store.List(ctx, owner, category, s.clock())
}

// Get returns one of owner's tasks.
func (s *Service) Get(ctx context.Context, owner, id int64) (Task, error) {
	if id <= 0 {
		return Task{}, apperr.NotFoundError{Op: "task.Get", Resource: "task"}
	}
	return s.store.Get(ctx, owner, id)
}

// Update applies a partial update to one of owner's tasks.
func (s *Service) Update(ctx context.Context, owner, id int64, p Patch) (Task, error) {
	if id <= 0 {
		return Task{}, apperr.NotFoundError{Op: "task.Update", Resource: "task"}
	}
	if p.Title != nil {
		title, err := validTitle(*p.Title)
		if err != nil {
			return Task{}, err
		}
		p.Title = &title
	}
	if !p.ClearDescription {
		if err := validDescription(p.Description); err != nil {
			return Task{}, err
		}
	}

	t, err := s.store.Update(ctx, owner, id, p, s.clock())
	if err != nil {
		return Task{}, err
	}
	s.log.Debug("task.update", "user_id", owner, "task_id", id)
	return t, nil
}

// Complete marks one of owner's tasks as completed.
func (s *Service) Complete(ctx context.Context, owner, id int64) (Task, error) {
	done := true
	return s.Update(ctx, owner, id, Patch{Completed: &done})
}

// Delete removes one of owner's tasks.
func (s *Service) Delete(ctx context.Context, owner, id int64) error {
	if id <= 0 {
		return apperr.NotFoundError{Op: "task.Delete", Resource: "task"}
	}
	if err := s.store.Delete(ctx, owner, id); err != nil {
		return err
	}
	s.log.Debug("task.delete", "user_id", owner, "task_id", id)
	return nil
}

// Summary groups all of owner's tasks by category using a single clock reading.
func (s *Service) Summary(ctx context.Context, owner int64) (Summary, error) {
	now := s.clock()

	all, err := s.store.List(ctx, owner, CategoryAll, now)
	if err != nil {
		return Summary{}, err
	}

	out := Summary{
		Completed: make([]Task, 0),
		Pending:   make([]Task, 0),
		Overdue:   make([]Task, 0),
	}
	for _, t := range all {
		switch Categorize(t, now) {
		case CategoryCompleted:
			out.Completed = append(out.Completed, t)
		case CategoryOverdue:
			out.Overdue = append(out.Overdue, t)
		default:
			out.Pending = append(out.Pending, t)
		}
	}
	return out, nil
}

// Counts returns store-wide category counts at the current instant.
func (s *Service) Counts(ctx context.Context) (Counts, error) {
	return s.store.CountByCategory(ctx, s.clock())
}

// Now is the service clock, normalized like stored timestamps.
func (s *Service) Now() time.Time { return s.clock() }

func validTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", apperr.Invalid("title", "must not be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", apperr.Invalid("title", fmt.Sprintf("must be at most %d characters", MaxTitleLength))
	}
	return title, nil
}

func validDescription(d *string) error {
	if d != nil && utf8.RuneCountInString(*d) > MaxDescriptionLength {
		return apperr.Invalid("description", fmt.Sprintf("must be at most %d characters", MaxDescriptionLength))
	}
	return nil
}

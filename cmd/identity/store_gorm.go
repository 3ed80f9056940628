package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/arathikrishnaam/dueDash/cmd/internal/apperr"
)

// UserRecord is the GORM model of the users table. The task store embeds it
// as the owner association so both stores migrate the same table.
type UserRecord struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"size:150;not null;uniqueIndex:uq_users_username"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName pins the table name shared with the Postgres schema.
func (UserRecord) TableName() string { return "users" }

func (r UserRecord) user() User {
	return User{ID: r.ID, Username: r.Username, CreatedAt: r.CreatedAt.UTC()}
}

// GormStore implements Store on top of GORM (SQLite in practice).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps db. The caller owns db.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("identity: nil db")
	}
	return &GormStore{db: db}, nil
}

// Migrate creates or updates the users table.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&UserRecord{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	return nil
}

// CreateUser inserts a user. A duplicate username yields ConflictError{Field: "username"}.
func (s *GormStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	username := NormalizeUsername(in.Username)
	if !ValidUsername(username) {
		return User{}, apperr.OpError{Op: op, Kind: apperr.ErrInvalidInput, Msg: "invalid username"}
	}
	if strings.TrimSpace(in.PasswordHash) == "" {
		return User{}, apperr.OpError{Op: op, Kind: apperr.ErrInvalidInput, Msg: "missing password hash"}
	}

	rec := UserRecord{
		Username:     username,
		PasswordHash: in.PasswordHash,
		CreatedAt:    normalizeNow(in.Now),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return User{}, apperr.ConflictError{Op: op, Field: "username"}
		}
		return User{}, apperr.Store(op, err)
	}
	return rec.user(), nil
}

// GetUserByUsername loads a user with its password digest.
func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (UserAuth, error) {
	const op = "identity.GetUserByUsername"

	var rec UserRecord
	err := s.db.WithContext(ctx).
		Where("username = ?", NormalizeUsername(username)).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserAuth{}, apperr.NotFoundError{Op: op, Resource: "user"}
		}
		return UserAuth{}, apperr.Store(op, err)
	}
	return UserAuth{User: rec.user(), PasswordHash: rec.PasswordHash}, nil
}

// CountUsers returns the number of registered users.
func (s *GormStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&UserRecord{}).Count(&n).Error; err != nil {
		return 0, apperr.Store("identity.CountUsers", err)
	}
	return n, nil
}

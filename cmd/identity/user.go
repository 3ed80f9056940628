package identity

import (
	"context"
	"time"
)

// User is a registered account as exposed to the rest of the service.
type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

// UserAuth pairs a user with its stored password digest. It is only handed
// to the login path and must never be serialized.
type UserAuth struct {
	User
	PasswordHash string
}

// CreateUserInput describes a signup that already passed validation and hashing.
type CreateUserInput struct {
	Username     string
	PasswordHash string
	Now          time.Time
}

// Store is the user persistence boundary.
type Store interface {
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)
	GetUserByUsername(ctx context.Context, username string) (UserAuth, error)
	CountUsers(ctx context.Context) (int64, error)
}

func normalizeNow(now time.Time) time.Time {
	if now.IsZero() {
		now = time.Now()
	}
	return now.UTC().Truncate(time.Microsecond)
}

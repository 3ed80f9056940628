// Package identity stores dueDash users.
//
// Users are created on signup and never updated or deleted. The Store
// interface has a PostgreSQL implementation (pgx) and a SQLite
// implementation (GORM); both report duplicate usernames as
// apperr.ConflictError{Field: "username"} and missing rows as
// apperr.NotFoundError{Resource: "user"}.
package identity

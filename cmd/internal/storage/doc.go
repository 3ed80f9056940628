// Package storage opens the relational backend behind dueDash.
//
// A DATABASE_URL starting with postgres:// selects PostgreSQL through a pgx
// pool; sqlite:, file:, *.db and :memory: select SQLite through GORM. The
// package also owns the PostgreSQL schema and a few pgx error helpers shared
// by the stores.
package storage

package storage

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// PostgresSchemaSQL renders the DDL for schema.
func PostgresSchemaSQL(schema string) (string, error) {
	if !ValidIdentifier(schema) {
		return "", fmt.Errorf("storage: invalid schema identifier %q", schema)
	}
	return strings.ReplaceAll(schemaSQL, "{{schema}}", pgx.Identifier{schema}.Sanitize()), nil
}

// EnsurePostgresSchema creates the users and tasks tables when missing.
func EnsurePostgresSchema(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	ddl, err := PostgresSchemaSQL(schema)
	if err != nil {
		return err
	}
	// No arguments: pgx sends this over the simple protocol, which accepts
	// several statements at once.
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("storage: apply schema: %w", err)
	}
	return nil
}

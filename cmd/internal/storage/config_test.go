package storage

import "testing"

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		driver Driver
		dsn    string
	}{
		{"", DriverSQLite, "duedash.db"},
		{"postgres://u:p@localhost:5432/db?sslmode=disable", DriverPostgres, "postgres://u:p@localhost:5432/db?sslmode=disable"},
		{"PostgreSQL://localhost/db", DriverPostgres, "PostgreSQL://localhost/db"},
		{"sqlite:todo.db", DriverSQLite, "todo.db"},
		{"sqlite:///./todo.db", DriverSQLite, "./todo.db"},
		{"sqlite:////var/lib/duedash/todo.db", DriverSQLite, "/var/lib/duedash/todo.db"},
		{"sqlite::memory:", DriverSQLite, ":memory:"},
		{":memory:", DriverSQLite, ":memory:"},
		{"file:data/app.db?cache=shared", DriverSQLite, "file:data/app.db?cache=shared"},
		{"data/app.sqlite3", DriverSQLite, "data/app.sqlite3"},
	}

	for _, tt := range tests {
		driver, dsn, err := ParseURL(tt.raw)
		if err != nil {
			t.Fatalf("ParseURL(%q): %v", tt.raw, err)
		}
		if driver != tt.driver || dsn != tt.dsn {
			t.Fatalf("ParseURL(%q) = (%q, %q), want (%q, %q)", tt.raw, driver, dsn, tt.driver, tt.dsn)
		}
	}
}

func TestParseURL_Unsupported(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"mysql://root:secret@db/app", "sqlite:", "redis://localhost"} {
		if _, _, err := ParseURL(raw); err == nil {
			t.Fatalf("ParseURL(%q): expected error", raw)
		}
	}
}

func TestRedact(t *testing.T) {
	t.Parallel()

	got := redact("mysql://root:secret@db:3306/app")
	if got != "mysql://***@db:3306/app" {
		t.Fatalf("redact = %q", got)
	}
	if got := redact("todo.txt"); got != "todo.txt" {
		t.Fatalf("redact = %q", got)
	}
}

func TestWithForeignKeys(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		":memory:":               ":memory:?_foreign_keys=on",
		"file:a.db?cache=shared": "file:a.db?cache=shared&_foreign_keys=on",
		"a.db?_foreign_keys=off": "a.db?_foreign_keys=off",
		"a.db?_fk=1":             "a.db?_fk=1",
	}
	for in, want := range tests {
		if got := withForeignKeys(in); got != want {
			t.Fatalf("withForeignKeys(%q) = %q, want %q", in, got, want)
		}
	}
}

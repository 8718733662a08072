package database

import (
	"errors"
	"testing"
)

func TestNewDialect(t *testing.T) {
	if _, ok := NewDialect(DialectSQLite).(*SQLiteDialect); !ok {
		t.Error("expected *SQLiteDialect for sqlite")
	}
	if _, ok := NewDialect(DialectPostgres).(*PostgresDialect); !ok {
		t.Error("expected *PostgresDialect for postgres")
	}
	if _, ok := NewDialect("unknown").(*SQLiteDialect); !ok {
		t.Error("expected SQLite as the default dialect")
	}
}

func TestDialectPlaceholders(t *testing.T) {
	sqlite := &SQLiteDialect{}
	pg := &PostgresDialect{}

	for _, pos := range []int{1, 2, 10} {
		if got := sqlite.Placeholder(pos); got != "?" {
			t.Errorf("sqlite Placeholder(%d) = %q, want ?", pos, got)
		}
	}
	if got := pg.Placeholder(3); got != "$3" {
		t.Errorf("postgres Placeholder(3) = %q, want $3", got)
	}
}

func TestDialectDuplicateKeyDetection(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		err     error
		want    bool
	}{
		{"sqlite unique", &SQLiteDialect{}, errors.New("UNIQUE constraint failed: accounts.username"), true},
		{"sqlite other", &SQLiteDialect{}, errors.New("no such table"), false},
		{"sqlite nil", &SQLiteDialect{}, nil, false},
		{"postgres duplicate key", &PostgresDialect{}, errors.New(`pq: duplicate key value violates unique constraint "accounts_username_key"`), true},
		{"postgres sqlstate", &PostgresDialect{}, errors.New("ERROR 23505"), true},
		{"postgres other", &PostgresDialect{}, errors.New("connection refused"), false},
		{"postgres nil", &PostgresDialect{}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.IsDuplicateKeyError(tt.err); got != tt.want {
				t.Errorf("IsDuplicateKeyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDialectSchemaFragments(t *testing.T) {
	if got := (&SQLiteDialect{}).SerialPrimaryKey(); got != "INTEGER PRIMARY KEY AUTOINCREMENT" {
		t.Errorf("sqlite SerialPrimaryKey = %q", got)
	}
	if got := (&PostgresDialect{}).SerialPrimaryKey(); got != "SERIAL PRIMARY KEY" {
		t.Errorf("postgres SerialPrimaryKey = %q", got)
	}
	if got := (&PostgresDialect{}).CaseInsensitiveText(); got != "CITEXT" {
		t.Errorf("postgres CaseInsensitiveText = %q", got)
	}
	if got := (&PostgresDialect{}).ReturningClause("id"); got != " RETURNING id" {
		t.Errorf("postgres ReturningClause = %q", got)
	}
}

func TestQueryBuilder(t *testing.T) {
	query := "UPDATE profiles SET level = ?, skills = ? WHERE id = ?"

	sqlite := NewQueryBuilder(&SQLiteDialect{})
	if got := sqlite.Build(query); got != query {
		t.Errorf("sqlite Build changed the query: %q", got)
	}

	pg := NewQueryBuilder(&PostgresDialect{})
	want := "UPDATE profiles SET level = $1, skills = $2 WHERE id = $3"
	if got := pg.Build(query); got != want {
		t.Errorf("postgres Build = %q, want %q", got, want)
	}
}

func TestQueryBuilderReturning(t *testing.T) {
	insert := "INSERT INTO accounts (username) VALUES (?)"

	if got := NewQueryBuilder(&SQLiteDialect{}).BuildWithReturning(insert, "id"); got != insert {
		t.Errorf("sqlite BuildWithReturning = %q", got)
	}

	want := "INSERT INTO accounts (username) VALUES ($1) RETURNING id"
	if got := NewQueryBuilder(&PostgresDialect{}).BuildWithReturning(insert, "id"); got != want {
		t.Errorf("postgres BuildWithReturning = %q, want %q", got, want)
	}
}

func TestSyncSequenceStatement(t *testing.T) {
	if got := (&SQLiteDialect{}).SyncSequenceStatement("accounts"); got != "" {
		t.Errorf("sqlite SyncSequenceStatement = %q, want empty", got)
	}

	want := "SELECT setval(pg_get_serial_sequence('profiles', 'id'), COALESCE((SELECT MAX(id) FROM profiles), 0) + 1, false)"
	if got := (&PostgresDialect{}).SyncSequenceStatement("profiles"); got != want {
		t.Errorf("postgres SyncSequenceStatement = %q, want %q", got, want)
	}
}

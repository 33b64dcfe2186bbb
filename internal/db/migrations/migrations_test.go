package migrations

import (
	"testing"
	"testing/fstest"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestParseMigrationFilename(t *testing.T) {
	v, name, err := parseMigrationFilename("0001_create_users.up.sql")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v != 1 || name != "create_users" {
		t.Fatalf("got %d %q", v, name)
	}

	for _, bad := range []string{"create_users.up.sql", "abc_create_users.up.sql"} {
		if _, _, err := parseMigrationFilename(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestEmbeddedMigrationsLoad(t *testing.T) {
	ms, err := loadMigrations(files)
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}
	if len(ms) == 0 || ms[0].Version != 1 || ms[0].Name != "create_users" {
		t.Fatalf("unexpected migrations %+v", ms)
	}
	if ms[0].Down == "" {
		t.Fatal("expected down migration content")
	}
}

func TestRunAppliesOnlyPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"sql/0002_add_index.up.sql":    {Data: []byte("CREATE INDEX users_created_at_idx ON users (created_at)")},
		"sql/0001_create_users.up.sql": {Data: []byte("CREATE TABLE users (id TEXT)")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE INDEX users_created_at_idx").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs(2, "add_index").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := run(db, fsys); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

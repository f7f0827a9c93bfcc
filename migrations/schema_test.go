package migrations

import (
	"context"
	"io/fs"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	databinding "github.com/goliatone/go-databinding"
)

func migrationFS(files ...string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, name := range files {
		fsys[name] = &fstest.MapFile{Data: []byte("SELECT 1;")}
	}
	return fsys
}

func TestLoad_EmbeddedSchemaForBothDialects(t *testing.T) {
	for _, dialect := range []string{DialectPostgres, DialectSQLite} {
		schema, err := Load(dialect)
		if err != nil {
			t.Fatalf("load %s: %v", dialect, err)
		}
		if schema.Dialect != dialect {
			t.Fatalf("expected dialect %s, got %s", dialect, schema.Dialect)
		}
		if !reflect.DeepEqual(schema.Versions, []string{"00001_databinding_provider_manifest"}) {
			t.Fatalf("unexpected %s versions %v", dialect, schema.Versions)
		}
		content, err := fs.ReadFile(schema.FS, "00001_databinding_provider_manifest.up.sql")
		if err != nil {
			t.Fatalf("read %s up migration: %v", dialect, err)
		}
		if !strings.Contains(string(content), "ux_databinding_provider_manifest_name") {
			t.Fatalf("expected %s migration to add the unique name index", dialect)
		}
	}
}

func TestLoad_SQLiteUsesItsOwnFiles(t *testing.T) {
	schema, err := Load("sqlite3")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if schema.Path != "data/sql/migrations/sqlite" {
		t.Fatalf("expected sqlite path, got %q", schema.Path)
	}
	embedded, err := fs.ReadFile(databinding.GetMigrationsFS(), schema.Path+"/00001_databinding_provider_manifest.up.sql")
	if err != nil {
		t.Fatalf("read embedded: %v", err)
	}
	loaded, err := fs.ReadFile(schema.FS, "00001_databinding_provider_manifest.up.sql")
	if err != nil {
		t.Fatalf("read loaded: %v", err)
	}
	if string(embedded) != string(loaded) {
		t.Fatalf("expected schema FS rooted at the sqlite directory")
	}
}

func TestNormalizeDialect(t *testing.T) {
	cases := map[string]string{
		"postgres":   DialectPostgres,
		" PG ":       DialectPostgres,
		"postgresql": DialectPostgres,
		"sqlite":     DialectSQLite,
		"SQLite3":    DialectSQLite,
	}
	for input, want := range cases {
		got, err := NormalizeDialect(input)
		if err != nil || got != want {
			t.Fatalf("normalize %q: expected %q, got %q (%v)", input, want, got, err)
		}
	}
	if _, err := NormalizeDialect("mysql"); err == nil {
		t.Fatalf("expected unsupported dialect to fail")
	}
}

func TestLoadFrom_RejectsBrokenMigrationSets(t *testing.T) {
	cases := []struct {
		name string
		fsys fstest.MapFS
		want string
	}{
		{
			name: "missing down file",
			fsys: migrationFS(
				"data/sql/migrations/00001_a.up.sql",
				"data/sql/migrations/sqlite/00001_a.up.sql",
				"data/sql/migrations/sqlite/00001_a.down.sql",
			),
			want: "has no down file",
		},
		{
			name: "orphan down file",
			fsys: migrationFS(
				"data/sql/migrations/00001_a.up.sql",
				"data/sql/migrations/00001_a.down.sql",
				"data/sql/migrations/00002_b.down.sql",
				"data/sql/migrations/sqlite/00001_a.up.sql",
				"data/sql/migrations/sqlite/00001_a.down.sql",
			),
			want: "has no up file",
		},
		{
			name: "dialects out of step",
			fsys: migrationFS(
				"data/sql/migrations/00001_a.up.sql",
				"data/sql/migrations/00001_a.down.sql",
				"data/sql/migrations/00002_b.up.sql",
				"data/sql/migrations/00002_b.down.sql",
				"data/sql/migrations/sqlite/00001_a.up.sql",
				"data/sql/migrations/sqlite/00001_a.down.sql",
			),
			want: "dialect versions differ",
		},
		{
			name: "no migrations",
			fsys: migrationFS(
				"data/sql/migrations/README",
				"data/sql/migrations/sqlite/README",
			),
			want: "no *.up.sql files",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadFrom(tc.fsys, DialectSQLite)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestApply_RequiresClient(t *testing.T) {
	if err := Apply(context.Background(), nil, DialectSQLite); err == nil {
		t.Fatalf("expected nil client to fail")
	}
}

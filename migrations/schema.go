// Package migrations loads the provider manifest schema for a SQL dialect
// and applies it through a persistence client.
package migrations

import (
	"fmt"
	"io/fs"
	"slices"
	"strings"

	databinding "github.com/goliatone/go-databinding"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

const (
	rootPath   = "data/sql/migrations"
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// Schema is the manifest migration set for one dialect. Versions are the
// migration file stems, sorted, each with an up and a down file.
type Schema struct {
	Dialect  string
	Path     string
	FS       fs.FS
	Versions []string
}

// NormalizeDialect maps driver-style names onto the supported dialects.
func NormalizeDialect(dialect string) (string, error) {
	switch strings.TrimSpace(strings.ToLower(dialect)) {
	case DialectPostgres, "pg", "postgresql":
		return DialectPostgres, nil
	case DialectSQLite, "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
}

// Load returns the embedded schema for dialect. Both dialects must declare
// the same versions, so a migration added for one cannot ship without the
// other.
func Load(dialect string) (Schema, error) {
	return loadFrom(databinding.GetMigrationsFS(), dialect)
}

func loadFrom(root fs.FS, dialect string) (Schema, error) {
	normalized, err := NormalizeDialect(dialect)
	if err != nil {
		return Schema{}, err
	}
	postgres, err := loadDialect(root, DialectPostgres)
	if err != nil {
		return Schema{}, err
	}
	sqlite, err := loadDialect(root, DialectSQLite)
	if err != nil {
		return Schema{}, err
	}
	if !slices.Equal(postgres.Versions, sqlite.Versions) {
		return Schema{}, fmt.Errorf(
			"migrations: dialect versions differ: postgres=%v sqlite=%v",
			postgres.Versions, sqlite.Versions,
		)
	}
	if normalized == DialectSQLite {
		return sqlite, nil
	}
	return postgres, nil
}

func loadDialect(root fs.FS, dialect string) (Schema, error) {
	path := rootPath
	if dialect == DialectSQLite {
		path = rootPath + "/sqlite"
	}
	sub, err := fs.Sub(root, path)
	if err != nil {
		return Schema{}, fmt.Errorf("migrations: resolve %s filesystem: %w", dialect, err)
	}
	versions, err := pairedVersions(sub)
	if err != nil {
		return Schema{}, fmt.Errorf("migrations: %s (%s): %w", dialect, path, err)
	}
	return Schema{Dialect: dialect, Path: path, FS: sub, Versions: versions}, nil
}

func pairedVersions(fsys fs.FS) ([]string, error) {
	ups, err := stems(fsys, upSuffix)
	if err != nil {
		return nil, err
	}
	if len(ups) == 0 {
		return nil, fmt.Errorf("no *%s files", upSuffix)
	}
	downs, err := stems(fsys, downSuffix)
	if err != nil {
		return nil, err
	}
	for _, version := range ups {
		if !slices.Contains(downs, version) {
			return nil, fmt.Errorf("migration %s has no down file", version)
		}
	}
	for _, version := range downs {
		if !slices.Contains(ups, version) {
			return nil, fmt.Errorf("migration %s has no up file", version)
		}
	}
	return ups, nil
}

func stems(fsys fs.FS, suffix string) ([]string, error) {
	matches, err := fs.Glob(fsys, "*"+suffix)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, strings.TrimSuffix(match, suffix))
	}
	slices.Sort(out)
	return out, nil
}

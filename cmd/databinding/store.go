package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-databinding/migrations"
	sqlstore "github.com/goliatone/go-databinding/store/sql"
	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

type persistenceConfig struct {
	driver string
	server string
	debug  bool
}

func (c persistenceConfig) GetDebug() bool                { return c.debug }
func (c persistenceConfig) GetDriver() string             { return c.driver }
func (c persistenceConfig) GetServer() string             { return c.server }
func (c persistenceConfig) GetPingTimeout() time.Duration { return 5 * time.Second }
func (c persistenceConfig) GetOtelIdentifier() string     { return "go-databinding-cli" }

// openManifestStore connects to dsn, applies pending migrations and returns
// a cached manifest store plus a close func.
func openManifestStore(
	ctx context.Context,
	driver string,
	dsn string,
	debug bool,
) (*sqlstore.CachedManifestStore, func() error, error) {
	var (
		sqlDriver     string
		dialect       schema.Dialect
		migrationName string
	)
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case driverSQLite, "sqlite3":
		sqlDriver, dialect, migrationName = "sqlite3", sqlitedialect.New(), migrations.DialectSQLite
	case driverPostgres, "pg":
		sqlDriver, dialect, migrationName = "postgres", pgdialect.New(), migrations.DialectPostgres
	default:
		return nil, nil, fmt.Errorf("unsupported driver %q", driver)
	}

	sqlDB, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", sqlDriver, err)
	}
	if sqlDriver == "sqlite3" {
		sqlDB.SetMaxOpenConns(1)
	}

	client, err := persistence.New(persistenceConfig{driver: sqlDriver, server: dsn, debug: debug}, sqlDB, dialect)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("persistence client: %w", err)
	}
	if err := migrations.Apply(ctx, client, migrationName); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	base, err := sqlstore.NewManifestStoreFromPersistence(client)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	cacheConfig := repositorycache.DefaultConfig()
	cacheConfig.TTL = 30 * time.Second
	cacheService, err := repositorycache.NewCacheService(cacheConfig)
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("manifest cache: %w", err)
	}
	store, err := sqlstore.NewCachedManifestStore(base, cacheService)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return store, client.Close, nil
}

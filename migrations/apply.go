package migrations

import (
	"context"
	"fmt"

	persistence "github.com/goliatone/go-persistence-bun"
)

// Apply registers the manifest schema for dialect on client and runs
// pending migrations.
func Apply(ctx context.Context, client *persistence.Client, dialect string) error {
	if client == nil {
		return fmt.Errorf("migrations: persistence client is required")
	}
	schema, err := Load(dialect)
	if err != nil {
		return err
	}
	client.RegisterSQLMigrations(schema.FS)
	return client.Migrate(ctx)
}

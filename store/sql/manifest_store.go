package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-databinding/discovery"
	persistence "github.com/goliatone/go-persistence-bun"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ManifestReader lists persisted provider declarations.
type ManifestReader interface {
	List(ctx context.Context) ([]ManifestEntry, error)
}

// ManifestWriter mutates persisted provider declarations.
type ManifestWriter interface {
	Declare(ctx context.Context, in DeclareInput) (ManifestEntry, error)
	SetEnabled(ctx context.Context, id string, enabled bool) (ManifestEntry, error)
	Delete(ctx context.Context, id string) error
}

type ManifestStore struct {
	db   *bun.DB
	repo repository.Repository[*manifestRecord]
}

func NewManifestStore(db *bun.DB) (*ManifestStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*manifestRecord](db, manifestHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid manifest repository wiring: %w", err)
		}
	}
	return &ManifestStore{db: db, repo: repo}, nil
}

func NewManifestStoreFromPersistence(client *persistence.Client) (*ManifestStore, error) {
	if client == nil {
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	}
	db, err := resolveBunDB(client)
	if err != nil {
		return nil, err
	}
	return NewManifestStore(db)
}

// EnsureSchema creates the manifest table when it does not exist. Deployments
// that manage schema through migrations do not need it.
func (s *ManifestStore) EnsureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: manifest store is not configured")
	}
	_, err := s.db.NewCreateTable().
		Model((*manifestRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (s *ManifestStore) Declare(ctx context.Context, in DeclareInput) (ManifestEntry, error) {
	if s == nil || s.db == nil {
		return ManifestEntry{}, fmt.Errorf("sqlstore: manifest store is not configured")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Loader = strings.TrimSpace(in.Loader)
	if in.Name == "" {
		return ManifestEntry{}, fmt.Errorf("sqlstore: provider name is required")
	}
	if !discovery.ValidName(in.Name) {
		return ManifestEntry{}, fmt.Errorf("sqlstore: provider name %q is invalid", in.Name)
	}
	if in.Loader == "" {
		return ManifestEntry{}, fmt.Errorf("sqlstore: loader is required")
	}

	now := time.Now().UTC()
	var out ManifestEntry
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := findManifestByNameTx(ctx, tx, in.Name)
		if err != nil {
			return err
		}
		if record == nil {
			record = &manifestRecord{
				ID:        uuid.NewString(),
				Name:      in.Name,
				Loader:    in.Loader,
				Position:  in.Position,
				Enabled:   !in.Disabled,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, insertErr := tx.NewInsert().Model(record).Exec(ctx); insertErr != nil {
				return insertErr
			}
			out = record.toDomain()
			return nil
		}

		record.Loader = in.Loader
		record.Position = in.Position
		record.Enabled = !in.Disabled
		record.UpdatedAt = now
		if _, updateErr := tx.NewUpdate().
			Model(record).
			Where("id = ?", record.ID).
			Exec(ctx); updateErr != nil {
			return updateErr
		}
		out = record.toDomain()
		return nil
	})
	if err != nil {
		return ManifestEntry{}, err
	}
	return out, nil
}

// List returns every entry ordered by position, then name.
func (s *ManifestStore) List(ctx context.Context) ([]ManifestEntry, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: manifest store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.OrderBy("position ASC"),
		repository.OrderBy("name ASC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]ManifestEntry, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

func (s *ManifestStore) Get(ctx context.Context, id string) (ManifestEntry, error) {
	if s == nil || s.repo == nil {
		return ManifestEntry{}, fmt.Errorf("sqlstore: manifest store is not configured")
	}
	record, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return ManifestEntry{}, err
	}
	return record.toDomain(), nil
}

func (s *ManifestStore) SetEnabled(ctx context.Context, id string, enabled bool) (ManifestEntry, error) {
	if s == nil || s.repo == nil {
		return ManifestEntry{}, fmt.Errorf("sqlstore: manifest store is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ManifestEntry{}, fmt.Errorf("sqlstore: manifest entry id is required")
	}
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ManifestEntry{}, err
	}
	record.Enabled = enabled
	record.UpdatedAt = time.Now().UTC()
	updated, err := s.repo.Update(ctx, record, repository.UpdateByID(id))
	if err != nil {
		return ManifestEntry{}, err
	}
	return updated.toDomain(), nil
}

func (s *ManifestStore) Delete(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: manifest store is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("sqlstore: manifest entry id is required")
	}
	res, err := s.db.NewDelete().
		Model((*manifestRecord)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("sqlstore: manifest entry %q not found", id)
	}
	return nil
}

func findManifestByNameTx(ctx context.Context, tx bun.Tx, name string) (*manifestRecord, error) {
	record := &manifestRecord{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", strings.TrimSpace(name)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}

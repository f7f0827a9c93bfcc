package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type manifestRecord struct {
	bun.BaseModel `bun:"table:databinding_provider_manifest,alias:dpm"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull,unique"`
	Loader    string    `bun:"loader,notnull"`
	Position  int       `bun:"position,notnull"`
	Enabled   bool      `bun:"enabled,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ManifestEntry is one persisted provider declaration. Loader names an entry
// of the in-process loader manifest.
type ManifestEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Loader    string    `json:"loader"`
	Position  int       `json:"position"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeclareInput creates or replaces the entry with the same name.
type DeclareInput struct {
	Name     string
	Loader   string
	Position int
	Disabled bool
}

func (r *manifestRecord) toDomain() ManifestEntry {
	if r == nil {
		return ManifestEntry{}
	}
	return ManifestEntry{
		ID:        r.ID,
		Name:      r.Name,
		Loader:    r.Loader,
		Position:  r.Position,
		Enabled:   r.Enabled,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

package sqlstore

import (
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

func manifestHandlers() repository.ModelHandlers[*manifestRecord] {
	return repository.ModelHandlers[*manifestRecord]{
		NewRecord: func() *manifestRecord {
			return &manifestRecord{}
		},
		GetID: func(record *manifestRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(record.ID)
		},
		SetID: func(record *manifestRecord, id uuid.UUID) {
			if record == nil {
				return
			}
			record.ID = id.String()
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(record *manifestRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.Name)
		},
	}
}

func parseUUID(value string) uuid.UUID {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return parsed
}

package command

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-databinding/core"
)

var (
	_ gocmd.Commander[CreateContextMessage]           = (*CreateContextCommand)(nil)
	_ gocmd.Commander[CreateContextFromSourceMessage] = (*CreateContextFromSourceCommand)(nil)
	_ gocmd.Commander[InspectDiscoveryMessage]        = (*InspectDiscoveryCommand)(nil)
	_ gocmd.Commander[DeclareManifestEntryMessage]    = (*DeclareManifestEntryCommand)(nil)
	_ gocmd.Commander[SetManifestEntryEnabledMessage] = (*SetManifestEntryEnabledCommand)(nil)
	_ gocmd.Commander[DeleteManifestEntryMessage]     = (*DeleteManifestEntryCommand)(nil)

	_ ContextFactory = (*core.Factory)(nil)
)

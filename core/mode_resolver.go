package core

import (
	"context"
	"strings"

	"github.com/goliatone/go-databinding/binding"
)

const (
	// LegacyModeProperty is kept for older deployments and wins over
	// ModeProperty when both are set.
	LegacyModeProperty = "BindingContextFactory"
	ModeProperty       = "databinding.BindingContextFactory"
)

type ModeSource string

const (
	SourceExplicit       ModeSource = "explicit"
	SourceLegacyProperty ModeSource = "legacy_property"
	SourceProperty       ModeSource = "property"
	SourceAutodetect     ModeSource = "autodetect"
)

// ModeResolution is the outcome of resolving a binding mode. An autodetect
// resolution carries no mode.
type ModeResolution struct {
	Mode     string     `json:"mode,omitempty"`
	Source   ModeSource `json:"source"`
	Property string     `json:"property,omitempty"`
}

func (r ModeResolution) Autodetect() bool {
	return r.Source == SourceAutodetect
}

type ModeResolver struct {
	properties PropertySource
	logger     Logger
}

func NewModeResolver(properties PropertySource, logger Logger) *ModeResolver {
	if properties == nil {
		properties = MapPropertySource(nil)
	}
	return &ModeResolver{properties: properties, logger: logger}
}

// Resolve picks the mode for info: the explicit mode first, then the legacy
// property, then the namespaced property. A mode taken from a property is
// written back into info.
func (r *ModeResolver) Resolve(ctx context.Context, info *binding.Info) ModeResolution {
	logger := contextLogger(ctx, r.logger)
	if info != nil {
		if mode := strings.TrimSpace(info.Mode); mode != "" {
			logger.Debug("using configured databinding mode", "mode", mode)
			return ModeResolution{Mode: mode, Source: SourceExplicit}
		}
	}

	for _, candidate := range []struct {
		key    string
		source ModeSource
	}{
		{key: LegacyModeProperty, source: SourceLegacyProperty},
		{key: ModeProperty, source: SourceProperty},
	} {
		value, ok := r.properties.Property(candidate.key)
		mode := strings.TrimSpace(value)
		if !ok || mode == "" {
			continue
		}
		info.SetMode(mode)
		logger.Debug("using databinding mode from property", "mode", mode, "property", candidate.key)
		return ModeResolution{Mode: mode, Source: candidate.source, Property: candidate.key}
	}
	return ModeResolution{Source: SourceAutodetect}
}

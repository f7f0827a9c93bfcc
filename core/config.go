package core

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-databinding/providers/jsonbind"
	"github.com/goliatone/go-databinding/providers/xmlbind"
)

type Config struct {
	ServiceName string `koanf:"service_name" mapstructure:"service_name"`
	// Properties are consulted for the mode properties after the runtime
	// property source.
	Properties     map[string]string `koanf:"properties" mapstructure:"properties"`
	PreferredModes []string          `koanf:"preferred_modes" mapstructure:"preferred_modes"`
	MaxScanFaults  int               `koanf:"max_scan_faults" mapstructure:"max_scan_faults"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:    "databinding",
		Properties:     map[string]string{},
		PreferredModes: []string{xmlbind.Mode, jsonbind.Mode},
		MaxScanFaults:  DefaultMaxScanFaults,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	for idx, mode := range c.PreferredModes {
		if strings.TrimSpace(mode) == "" {
			return fmt.Errorf("core: preferred_modes[%d] is invalid: blank mode", idx)
		}
	}
	if c.MaxScanFaults < 0 {
		return fmt.Errorf("core: max_scan_faults is invalid: %d", c.MaxScanFaults)
	}
	return nil
}

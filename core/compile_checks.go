package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ DiscoverySource   = DiscoverySourceFunc(nil)
	_ CandidateIterator = CandidateIteratorFunc(nil)
	_ PropertySource    = MapPropertySource(nil)
	_ PropertySource    = EnvPropertySource{}
	_ PropertySource    = ChainPropertySource(nil)
	_ ConfigProvider    = (*CfgxConfigProvider)(nil)
	_ OptionsResolver   = GoOptionsResolver{}
	_ RawConfigLoader   = staticRawConfigLoader{}

	_ error = (*ConfigurationError)(nil)
	_ error = (*MissingDependencyError)(nil)

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)

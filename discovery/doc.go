// Package discovery provides in-process provider manifests that feed the
// core provider scanner.
//
// Backends register a named Loader, typically from an init function, much
// like database/sql drivers:
//
//	func init() {
//		discovery.MustRegister("yaml", yamlbind.Loader)
//	}
//
// A Manifest yields its loaders in registration order. ServicesFile narrows
// or reorders a manifest with a line-oriented declaration file, and Chain
// concatenates several sources.
package discovery

// Package binding defines the capability contract shared by every binding
// backend: Provider, Context and the Info a context is built from.
//
// A provider answers two questions. Handles reports whether it serves a
// mode name ("xml", "json", ...) or an implementation namespace, which is
// the import path of the package that declared an existing artifact's
// type (see Namespace). NewContext and NewContextFromSource construct the
// context itself.
package binding

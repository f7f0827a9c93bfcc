// Package core resolves and constructs binding contexts. It discovers the
// available providers on every call, picks one by explicit mode, property
// or autodetection, and builds the context while tolerating broken
// optional providers.
//
// core depends only on the binding contract and the built-in default
// backends; discovery sources, persistence and transports live in other
// packages.
package core

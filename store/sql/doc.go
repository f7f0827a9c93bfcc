// Package sqlstore persists provider manifests with bun and exposes them as
// a discovery source.
package sqlstore

// Package providers groups the built-in binding backends. Each subpackage
// exposes New, a discovery Loader and a Namespace matching the package path.
package providers

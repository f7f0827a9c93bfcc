package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoMoreCandidates ends a discovery pass.
var ErrNoMoreCandidates = errors.New("core: no more discovery candidates")

// ConfigurationError reports a malformed provider declaration.
type ConfigurationError struct {
	Candidate string
	Reason    string
	Err       error
}

func (e *ConfigurationError) Error() string {
	return discoveryErrorText("provider configuration error", e.Candidate, e.Reason, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// MissingDependencyError reports a declared provider whose implementation is
// not available in this process.
type MissingDependencyError struct {
	Candidate  string
	Dependency string
	Err        error
}

func (e *MissingDependencyError) Error() string {
	reason := ""
	if e != nil && strings.TrimSpace(e.Dependency) != "" {
		reason = "missing " + strings.TrimSpace(e.Dependency)
	}
	var cause error
	candidate := ""
	if e != nil {
		cause = e.Err
		candidate = e.Candidate
	}
	return discoveryErrorText("provider dependency missing", candidate, reason, cause)
}

func (e *MissingDependencyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func discoveryErrorText(kind string, candidate string, reason string, cause error) string {
	var b strings.Builder
	b.WriteString("core: ")
	b.WriteString(kind)
	if candidate = strings.TrimSpace(candidate); candidate != "" {
		fmt.Fprintf(&b, " (%s)", candidate)
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		b.WriteString(": ")
		b.WriteString(reason)
	}
	if cause != nil {
		b.WriteString(": ")
		b.WriteString(cause.Error())
	}
	return b.String()
}

// FaultKind classifies a skipped discovery candidate.
type FaultKind string

const (
	FaultConfiguration     FaultKind = "configuration"
	FaultMissingDependency FaultKind = "missing_dependency"
	FaultUnknown           FaultKind = "unknown"
)

// ClassifyDiscoveryError reports which fault kind err belongs to.
func ClassifyDiscoveryError(err error) FaultKind {
	var configErr *ConfigurationError
	if errors.As(err, &configErr) {
		return FaultConfiguration
	}
	var missingErr *MissingDependencyError
	if errors.As(err, &missingErr) {
		return FaultMissingDependency
	}
	return FaultUnknown
}

package discovery

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-databinding/binding"
	"github.com/goliatone/go-databinding/core"
)

// ServicesFile declares which providers to load, and in what order, with a
// file of provider names: one per line, '#' starts a comment, blank lines
// are ignored. Names are resolved against loaders. The file is re-read on
// every pass.
func ServicesFile(path string, loaders *Manifest) core.DiscoverySource {
	return servicesSource{
		path:     path,
		loaders:  loaders,
		readFile: os.ReadFile,
	}
}

// ServicesFS is ServicesFile reading from fsys.
func ServicesFS(fsys fs.FS, path string, loaders *Manifest) core.DiscoverySource {
	return servicesSource{
		path:    path,
		loaders: loaders,
		readFile: func(name string) ([]byte, error) {
			return fs.ReadFile(fsys, name)
		},
	}
}

type servicesSource struct {
	path     string
	loaders  *Manifest
	readFile func(string) ([]byte, error)
}

type declaration struct {
	name string
	line int
}

func (s servicesSource) Candidates(context.Context) core.CandidateIterator {
	declarations, err := s.read()
	if err != nil {
		done := false
		return core.CandidateIteratorFunc(func() (binding.Provider, error) {
			if done {
				return nil, core.ErrNoMoreCandidates
			}
			done = true
			return nil, err
		})
	}

	next := 0
	return core.CandidateIteratorFunc(func() (binding.Provider, error) {
		if next >= len(declarations) {
			return nil, core.ErrNoMoreCandidates
		}
		decl := declarations[next]
		next++
		if !ValidName(decl.name) {
			return nil, &core.ConfigurationError{
				Candidate: decl.name,
				Reason:    fmt.Sprintf("%s:%d: illegal provider name", s.path, decl.line),
			}
		}
		loader, ok := s.loaders.Lookup(decl.name)
		if !ok {
			return nil, &core.MissingDependencyError{Candidate: decl.name, Dependency: decl.name}
		}
		return Load(decl.name, loader)
	})
}

func (s servicesSource) read() ([]declaration, error) {
	data, err := s.readFile(s.path)
	if err != nil {
		return nil, &core.ConfigurationError{
			Candidate: s.path,
			Reason:    "services file unreadable",
			Err:       err,
		}
	}

	declarations := []declaration{}
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if idx := strings.IndexByte(text, '#'); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		declarations = append(declarations, declaration{name: text, line: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, &core.ConfigurationError{
			Candidate: s.path,
			Reason:    "services file unreadable",
			Err:       err,
		}
	}
	return declarations, nil
}

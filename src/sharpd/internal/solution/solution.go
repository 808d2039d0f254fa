// Package solution discovers the project descriptor used to start a
// session's analysis server.
package solution

import (
	"path/filepath"
	"strings"

	"github.com/uber/sharpd/src/sharpd/internal/errors"
	"github.com/uber/sharpd/src/sharpd/internal/fs"
	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

const _descriptorPattern = "*.sln"

// Candidate is a discovered project descriptor plus the directory it was
// found in. Produced and consumed within one resolution call.
type Candidate struct {
	Path string
	Dir  string
}

// Name returns the descriptor file name with the extension stripped.
func (c Candidate) Name() string {
	base := filepath.Base(c.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Resolver locates the solution file governing an edited file.
type Resolver interface {
	Resolve(editedFilePath string) (Candidate, error)
}

type resolver struct {
	fs fs.SharpFS
}

// New creates a Resolver backed by the given filesystem.
func New(f fs.SharpFS) Resolver {
	return &resolver{fs: f}
}

// Resolve searches the edited file's directory for solution files, walking
// up one directory at a time until the filesystem root.
func (r *resolver) Resolve(editedFilePath string) (Candidate, error) {
	edited, err := r.fs.Abs(editedFilePath)
	if err != nil {
		return Candidate{}, err
	}

	start := filepath.Dir(edited)
	for dir := start; ; {
		candidates, err := r.candidatesIn(dir)
		if err != nil {
			return Candidate{}, err
		}

		switch len(candidates) {
		case 0:
		case 1:
			return candidates[0], nil
		default:
			return disambiguate(dir, candidates, edited)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Candidate{}, &errors.NoSolutionFileError{Dir: start}
		}
		dir = parent
	}
}

func (r *resolver) candidatesIn(dir string) ([]Candidate, error) {
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var found []Candidate
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(_descriptorPattern, e.Name()); ok {
			found = append(found, Candidate{Path: filepath.Join(dir, e.Name()), Dir: dir})
		}
	}
	return found, nil
}

// disambiguate keeps the candidate whose name matches the edited file's
// top-level subfolder under the solution directory.
func disambiguate(dir string, candidates []Candidate, edited string) (Candidate, error) {
	rel, err := filepath.Rel(dir, edited)
	if err != nil {
		return Candidate{}, err
	}
	subfolder := strings.Split(filepath.ToSlash(rel), "/")[0]

	var matched []Candidate
	for _, c := range candidates {
		if c.Name() == subfolder {
			matched = append(matched, c)
		}
	}
	if len(matched) == 1 {
		return matched[0], nil
	}

	paths := make([]string, 0, len(candidates))
	for _, c := range candidates {
		paths = append(paths, c.Path)
	}
	return Candidate{}, &errors.AmbiguousSolutionError{Dir: dir, Candidates: paths}
}

// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package schemaconv

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Scratch owns the intermediate artifacts of a single plan
//
// Dir is private to one input file, so concurrent plans never share a path.
type Scratch struct {
	Dir   string
	paths []string
}

func (s *Scratch) path(name string) string {
	p := filepath.Join(s.Dir, name)
	s.paths = append(s.paths, p)
	return p
}

// Paths returns the intermediate artifact paths allocated for the plan
func (s *Scratch) Paths() []string {
	return slices.Clone(s.paths)
}

// Empty reports whether the plan needs no intermediate artifacts
func (s *Scratch) Empty() bool {
	return s == nil || len(s.paths) == 0
}

// Acquire creates the scratch directory
func (s *Scratch) Acquire(fsys afero.Fs) error {
	if s.Empty() {
		return nil
	}
	return fsys.MkdirAll(s.Dir, 0o755)
}

// Release removes the scratch directory and everything in it
//
// Failures are logged and never returned.
func (s *Scratch) Release(ctx context.Context, fsys afero.Fs) {
	if s.Empty() {
		return
	}
	logger := log.FromContext(ctx)
	if err := fsys.RemoveAll(s.Dir); err != nil {
		logger.Warn("failed to clean up intermediate artifacts", "dir", s.Dir, "error", err)
		return
	}
	logger.Debug("cleaned", "dir", s.Dir, "artifacts", len(s.paths))
}

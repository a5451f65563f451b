// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package schemaconv

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// FileInfo is the environment a filter expression is evaluated against
type FileInfo struct {
	// Name is the base name of the file
	Name string `expr:"name"`
	// Ext is the extension including the leading dot
	Ext string `expr:"ext"`
	// Path is relative to the input directory, using forward slashes
	Path string `expr:"path"`
	// Dir is the relative directory containing the file
	Dir string `expr:"dir"`
	// Size is in bytes
	Size int64 `expr:"size"`
}

// Filter decides which input files are converted
type Filter struct {
	source  string
	program *vm.Program
}

// NewFilter compiles a boolean expression, an empty expression matches every file
//
// Example: `ext == ".json" && !(name startsWith "_")`
func NewFilter(expression string) (*Filter, error) {
	f := &Filter{source: strings.TrimSpace(expression)}
	if f.source == "" {
		return f, nil
	}

	program, err := expr.Compile(f.source, expr.Env(FileInfo{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", f.source, err)
	}
	f.program = program
	return f, nil
}

// String implements fmt.Stringer
func (f *Filter) String() string {
	return f.source
}

// Match evaluates the filter against a file
func (f *Filter) Match(info FileInfo) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}

	out, err := expr.Run(f.program, info)
	if err != nil {
		return false, fmt.Errorf("filter %q on %s: %w", f.source, info.Path, err)
	}

	return out.(bool), nil // this is safe due to expr.AsBool()
}

func newFileInfo(root, path string, size int64) FileInfo {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	dir := filepath.ToSlash(filepath.Dir(rel))

	return FileInfo{
		Name: filepath.Base(path),
		Ext:  filepath.Ext(path),
		Path: rel,
		Dir:  dir,
		Size: size,
	}
}

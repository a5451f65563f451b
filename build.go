// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package schemaconv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// DefaultInputDir is where schemas are read from, relative to the project
const DefaultInputDir = "src/main/resources/schema"

// DefaultOutputDir is where generated artifacts are written, relative to the project
const DefaultOutputDir = "build/generated/sources/avrotize/java/main"

// Task converts every schema in a directory
type Task struct {
	InputDir  string
	OutputDir string
	Source    Format
	Target    Format
	Options   ConversionOptions
	// Filter selects which files are converted, nil converts every file
	Filter *Filter
	// Concurrency is the number of files converted at once, values below 2 run serially
	Concurrency int
	// Dry prints the commands without running them
	Dry bool
}

// Result summarizes a task run
type Result struct {
	Converted []string
	Skipped   []string
	Failed    []string
}

// Run plans and executes a conversion for every input file
//
// A missing input directory is not an error. An unsupported format pair, or
// two inputs converting to the same file, fails before anything runs. A
// failing file does not stop the others, every failure is returned joined
// together.
func (t Task) Run(ctx context.Context, fsys afero.Fs, planner *Planner, runner Runner) (*Result, error) {
	logger := log.FromContext(ctx)
	start := time.Now()

	edges, err := planner.Resolve(t.Source, t.Target)
	if err != nil {
		return nil, err
	}

	logger.Debug("input", "dir", t.InputDir)
	fi, err := fsys.Stat(t.InputDir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("input directory does not exist", "dir", t.InputDir)
			return &Result{}, nil
		}
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("input %s is not a directory", t.InputDir)
	}

	files, skipped, err := t.collect(fsys)
	if err != nil {
		return nil, err
	}

	plans, err := t.plan(planner, edges[len(edges)-1], files)
	if err != nil {
		return nil, err
	}

	if !t.Dry {
		if err := fsys.MkdirAll(t.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	result := &Result{Skipped: skipped}
	var (
		mu   sync.Mutex
		errs []error
	)

	convert := func(ctx context.Context, plan *Plan) {
		logger.Debug("processing", "file", plan.Input)

		err := Execute(ctx, runner, plan, ExecuteOptions{Fs: fsys, Dry: t.Dry})

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			result.Failed = append(result.Failed, plan.Input)
			errs = append(errs, addTrace(err, fmt.Sprintf("at %s", plan.Input)))
			return
		}
		result.Converted = append(result.Converted, plan.Input)
	}

	if t.Concurrency < 2 {
		for _, plan := range plans {
			if err := ctx.Err(); err != nil {
				return result, errors.Join(append(errs, err)...)
			}
			convert(ctx, plan)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(t.Concurrency)
		for _, plan := range plans {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				convert(ctx, plan)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			errs = append(errs, err)
		}
		slices.Sort(result.Converted)
		slices.Sort(result.Failed)
	}

	logger.Debug("converted", "files", len(result.Converted), "failed", len(result.Failed), "skipped", len(result.Skipped), "duration", time.Since(start))

	return result, errors.Join(errs...)
}

// plan builds every file's plan, single file outputs keep the input's
// directory relative to InputDir so inputs sharing a base name never collide
func (t Task) plan(planner *Planner, last ConversionEdge, files []string) ([]*Plan, error) {
	plans := make([]*Plan, 0, len(files))
	seen := make(map[string]string, len(files))

	for _, path := range files {
		outputDir := t.OutputDir
		if last.Output == OutputFile {
			rel, err := filepath.Rel(t.InputDir, filepath.Dir(path))
			if err != nil {
				return nil, err
			}
			outputDir = filepath.Join(outputDir, rel)
		}

		plan, err := planner.Plan(t.Source, t.Target, path, outputDir, t.Options)
		if err != nil {
			return nil, err
		}

		if last.Output == OutputFile {
			dest := plan.Destination()
			if prev, ok := seen[dest]; ok {
				return nil, fmt.Errorf("%s and %s both convert to %s", prev, path, dest)
			}
			seen[dest] = path
		}

		plans = append(plans, plan)
	}

	return plans, nil
}

// collect walks the input directory, returning matching files in lexical order
func (t Task) collect(fsys afero.Fs) (files, skipped []string, err error) {
	err = afero.Walk(fsys, t.InputDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ok, err := t.Filter.Match(newFileInfo(t.InputDir, path, info.Size()))
		if err != nil {
			return err
		}
		if !ok {
			skipped = append(skipped, path)
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, skipped, err
}

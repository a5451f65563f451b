// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package schemaconv

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// ExecuteOptions control how a plan is executed
type ExecuteOptions struct {
	// Fs is used for scratch and output housekeeping, defaults to the OS filesystem
	Fs afero.Fs
	// Dry prints every command without running it
	Dry bool
}

// Execute runs the steps of a plan in order
//
// The first failing step aborts the plan. Intermediate artifacts are
// released once the plan finishes, whatever the outcome. Outputs already
// in place are never removed, only staged outputs the plan owns.
func Execute(ctx context.Context, runner Runner, plan *Plan, opts ExecuteOptions) error {
	logger := log.FromContext(ctx)

	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	if !opts.Dry {
		if err := plan.Scratch.Acquire(fsys); err != nil {
			return fmt.Errorf("failed to create scratch directory: %w", err)
		}
		defer plan.Scratch.Release(ctx, fsys)
	}

	name := filepath.Base(plan.Input)

	for i, step := range plan.Steps {
		sub := logger.With("step", fmt.Sprintf("%s[%d]", name, i))
		frame := fmt.Sprintf("at %s[%d] (%s)", name, i, step.Edge.Subcommand)

		if err := ctx.Err(); err != nil {
			return err
		}

		logger.Info(step.Edge.Lifecycle() + ": " + name)
		printCommand(logger, step.Command())

		if opts.Dry {
			continue
		}

		if step.Edge.Output == OutputFile {
			if err := fsys.MkdirAll(filepath.Dir(step.Output), 0o755); err != nil {
				return addTrace(fmt.Errorf("failed to create output directory: %w", err), frame)
			}
		}

		start := time.Now()
		result, err := runner.Run(ctx, step.Executable, step.Args)
		if err != nil || result.ExitCode != 0 {
			if step.Dest != "" {
				discard(sub, fsys, step.Output)
			}
			return addTrace(&StepExecutionError{
				Step:       i,
				Subcommand: step.Edge.Subcommand,
				ExitCode:   result.ExitCode,
				Stderr:     result.Stderr,
				err:        err,
			}, frame)
		}

		output := step.Output
		if step.Dest != "" {
			if err := fsys.Rename(step.Output, step.Dest); err != nil {
				discard(sub, fsys, step.Output)
				return addTrace(fmt.Errorf("failed to move %s into place: %w", step.Dest, err), frame)
			}
			output = step.Dest
		}

		sub.Debug("completed", "subcommand", step.Edge.Subcommand, "output", output, "duration", time.Since(start))
	}

	return nil
}

// discard removes a staged output, only ever called on paths the plan owns
func discard(logger *log.Logger, fsys afero.Fs, path string) {
	if _, err := fsys.Stat(path); err != nil {
		return
	}
	if err := fsys.Remove(path); err != nil {
		logger.Warn("failed to remove staged output", "path", path, "error", err)
	}
}

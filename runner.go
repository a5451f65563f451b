// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package schemaconv

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
)

// ExitResult is the outcome of a process that ran to completion
type ExitResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes external processes
//
// Run returns an error only when the process could not be run at all,
// a non-zero exit code is reported through ExitResult.
type Runner interface {
	Run(ctx context.Context, executable string, args []string) (ExitResult, error)
}

// RunnerFunc adapts a function to the Runner interface
type RunnerFunc func(ctx context.Context, executable string, args []string) (ExitResult, error)

// Run calls f
func (f RunnerFunc) Run(ctx context.Context, executable string, args []string) (ExitResult, error) {
	return f(ctx, executable, args)
}

// ExecRunner runs processes with os/exec
type ExecRunner struct {
	// Dir is the working directory, empty means the calling process's directory
	Dir string
	// Stdout and Stderr additionally receive the process streams when set
	Stdout io.Writer
	Stderr io.Writer
}

var _ Runner = (*ExecRunner)(nil)

// Run implements Runner
func (r *ExecRunner) Run(ctx context.Context, executable string, args []string) (ExitResult, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, executable, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = tee(&stdout, r.Stdout)
	cmd.Stderr = tee(&stderr, r.Stderr)

	err := cmd.Run()

	result := ExitResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var eErr *exec.ExitError
	if errors.As(err, &eErr) && eErr.Exited() {
		result.ExitCode = eErr.ExitCode()
		return result, nil
	}
	if err != nil {
		result.ExitCode = -1
		return result, err
	}

	return result, nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

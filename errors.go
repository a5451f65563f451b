// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package schemaconv

import (
	"errors"
	"fmt"
	"strings"
)

// InstallURL is where users are pointed when the tool is missing
const InstallURL = "https://github.com/clemensv/avrotize"

// ToolNotFoundError is returned when the presence probe could not execute the tool at all
type ToolNotFoundError struct {
	Path string
	err  error
}

// Error implements the error interface
func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("avrotize executable not found at %q, please install it following the instructions at %s: %v", e.Path, InstallURL, e.err)
}

// Unwrap returns the underlying error
func (e *ToolNotFoundError) Unwrap() error {
	return e.err
}

// UnsupportedConversionError is returned when no path through the graph exists
type UnsupportedConversionError struct {
	Source Format
	Target Format
}

// Error implements the error interface
func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("unsupported conversion: %s to %s", e.Source, e.Target)
}

// StepExecutionError is returned when a plan step fails to run or exits non-zero
type StepExecutionError struct {
	Step       int
	Subcommand string
	ExitCode   int
	Stderr     string
	err        error
}

// Error implements the error interface
func (e *StepExecutionError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "step %d (%s) failed", e.Step, e.Subcommand)
	if e.err != nil {
		fmt.Fprintf(&sb, ": %v", e.err)
	} else {
		fmt.Fprintf(&sb, " with exit code %d", e.ExitCode)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		fmt.Fprintf(&sb, ": %s", stderr)
	}
	return sb.String()
}

// Unwrap returns the underlying runner error, if any
func (e *StepExecutionError) Unwrap() error {
	return e.err
}

// TraceError is an error with a logical stack trace
type TraceError struct {
	err   error    // The original error
	Trace []string // Logical stack trace
}

var _ error = &TraceError{}

// Error returns the original error message
func (e *TraceError) Error() string {
	return e.err.Error()
}

// Unwrap returns the underlying error
func (e *TraceError) Unwrap() error {
	return e.err
}

// addTrace adds a new frame and returns a new TraceError
func addTrace(err error, frame string) error {
	var tErr *TraceError
	if errors.As(err, &tErr) {
		tErr.Trace = append([]string{frame}, tErr.Trace...)
		return tErr
	}

	return &TraceError{
		err:   err,
		Trace: []string{frame},
	}
}

// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package cmd_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/stretchr/testify/assert"

	"github.com/defenseunicorns/schemaconv"
	"github.com/defenseunicorns/schemaconv/cmd"
)

func TestE2E(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("..", "testdata"),
		Setup: func(env *testscript.Env) error {
			env.Setenv("NO_COLOR", "true")
			env.Setenv("HOME", filepath.Join(env.WorkDir, "home"))
			return nil
		},
		RequireUniqueNames: true,
		// UpdateScripts:      true,
	})
}

func TestParseExitCode(t *testing.T) {
	assert.Equal(t, 0, cmd.ParseExitCode(nil))
	assert.Equal(t, 1, cmd.ParseExitCode(errors.New("boom")))
	assert.Equal(t, 1, cmd.ParseExitCode(&schemaconv.UnsupportedConversionError{Source: schemaconv.FormatProto, Target: schemaconv.FormatAvro}))
	assert.Equal(t, 3, cmd.ParseExitCode(&schemaconv.StepExecutionError{Step: 0, Subcommand: "j2a", ExitCode: 3}))
	assert.Equal(t, 5, cmd.ParseExitCode(fmt.Errorf("at test.json: %w", &schemaconv.StepExecutionError{Step: 1, Subcommand: "a2java", ExitCode: 5})))
	assert.Equal(t, 1, cmd.ParseExitCode(&schemaconv.StepExecutionError{Step: 0, Subcommand: "j2a", ExitCode: -1}))
}

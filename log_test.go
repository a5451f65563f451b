// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package schemaconv

import (
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestPrintCommand(t *testing.T) {
	testCases := []struct {
		name     string
		command  []string
		expected string
	}{
		{
			name:     "simple",
			command:  []string{"avrotize", "j2a", "test.json", "--out", "/out/test.avsc"},
			expected: "$ avrotize j2a test.json --out /out/test.avsc\n",
		},
		{
			name:     "quoted",
			command:  []string{"avrotize", "a2java", "my schema.avsc", "--out", "/out", "--package", "com.example"},
			expected: "$ avrotize a2java 'my schema.avsc' --out /out --package com.example\n",
		},
	}

	t.Setenv("NO_COLOR", "true")

	var buf strings.Builder

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			printCommand(log.New(&buf), tc.command)
			require.Equal(t, tc.expected, ansi.Strip(buf.String()))
			buf.Reset()
		})
	}
}

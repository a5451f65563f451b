// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package schemaconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplain(t *testing.T) {
	planner := NewPlanner(PlannerConfig{TempDir: "/tmp"})

	md, err := Explain(planner, FormatJSONSchema, FormatJava, ConversionOptions{PackageName: "com.example"})
	require.NoError(t, err)

	assert.Contains(t, md, "| jsonschema | avro | `j2a` | file |")
	assert.Contains(t, md, "| avro | proto | `a2p` | directory |")
	assert.Contains(t, md, "## jsonschema to java")
	assert.Contains(t, md, "1. Converting JSON Schema to Avro\n2. Generating Java code from Avro\n")
	assert.Contains(t, md, "avrotize j2a schema/example.json --out /tmp/")
	assert.Contains(t, md, "--out out --jackson-annotation --package com.example\n```")
	assert.NotContains(t, md, "s2java")

	_, err = Explain(planner, FormatProto, FormatAvro, ConversionOptions{})
	require.EqualError(t, err, "unsupported conversion: proto to avro")
}

func TestRenderMarkdownWithoutTerminal(t *testing.T) {
	t.Setenv("NO_COLOR", "true")

	out, err := RenderMarkdown("# hello\n")
	require.NoError(t, err)
	assert.Equal(t, "# hello\n", out)
}

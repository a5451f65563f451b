// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

// Package main regenerates the checked in config schema and conversion table.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/defenseunicorns/schemaconv"
	configv0 "github.com/defenseunicorns/schemaconv/config/v0"
)

func run(root string) error {
	b, err := json.MarshalIndent(configv0.Schema(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(root, "schemaconv.schema.json"), append(b, '\n'), 0o644); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(root, "CONVERSIONS.md"), []byte(conversions()), 0o644)
}

// conversions lists every edge, direct ones last since they are opt-in
func conversions() string {
	var sb strings.Builder
	sb.WriteString("# Conversions\n\n| From | To | Subcommand | Output | Requires |\n|---|---|---|---|---|\n")
	for _, e := range schemaconv.DefaultGraph(true).Edges() {
		output := "file"
		if e.Output == schemaconv.OutputDirectory {
			output = "directory"
		}
		requires := ""
		if _, ok := schemaconv.DefaultGraph(false).Edge(e.Source, e.Target); !ok {
			requires = "`--direct`"
		}
		fmt.Fprintf(&sb, "| %s | %s | `%s` | %s | %s |\n", e.Source.Description(), e.Target.Description(), e.Subcommand, output, requires)
	}
	return sb.String()
}

func main() {
	// usage: `go run gen/main.go`
	if err := run(""); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

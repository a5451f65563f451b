// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package schemaconv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Explain describes the capability graph and how source is converted to target as markdown
func Explain(planner *Planner, source, target Format, opts ConversionOptions) (string, error) {
	var sb strings.Builder

	sb.WriteString("# Conversions\n\n")
	sb.WriteString("| Source | Target | Subcommand | Output |\n")
	sb.WriteString("| --- | --- | --- | --- |\n")
	for _, e := range planner.Graph().Edges() {
		kind := "file"
		if e.Output == OutputDirectory {
			kind = "directory"
		}
		fmt.Fprintf(&sb, "| %s | %s | `%s` | %s |\n", e.Source, e.Target, e.Subcommand, kind)
	}

	fmt.Fprintf(&sb, "\n## %s to %s\n\n", source, target)

	example := filepath.Join("schema", "example"+source.Extension())
	plan, err := planner.Plan(source, target, example, "out", opts)
	if err != nil {
		return "", err
	}

	for i, step := range plan.Steps {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, step.Edge.Lifecycle())
	}
	sb.WriteString("\n```sh\n")
	for _, step := range plan.Steps {
		sb.WriteString(shellJoin(step.Command()))
		sb.WriteString("\n")
	}
	sb.WriteString("```\n")

	return sb.String(), nil
}

// RenderMarkdown renders markdown for the terminal
//
// Markdown is returned untouched when stdout is not a terminal or NO_COLOR is set.
func RenderMarkdown(md string) (string, error) {
	fd := int(os.Stdout.Fd())
	if termenv.EnvNoColor() || !term.IsTerminal(fd) {
		return md, nil
	}

	width := 80
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		width = w
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

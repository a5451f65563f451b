// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

// Package schemaconv plans and runs schema format conversions through avrotize.
package schemaconv

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultToolPath is the avrotize executable looked up on $PATH
const DefaultToolPath = "avrotize"

// DefaultMaxHops limits how many tool invocations a single plan may chain
const DefaultMaxHops = 2

// Step is a single tool invocation within a plan
type Step struct {
	Edge       ConversionEdge
	Executable string
	Args       []string
	// Input is the file consumed by this step
	Input string
	// Output is the file or directory passed to --out
	Output string
	// Dest is where a staged Output is moved once the step succeeds, empty when Output is final
	Dest string
}

// Command returns the full command line for the step
func (s Step) Command() []string {
	return append([]string{s.Executable}, s.Args...)
}

// Plan is the ordered list of steps converting one input file
//
// The output of every non-final step is the input of the next.
type Plan struct {
	Source  Format
	Target  Format
	Input   string
	Steps   []Step
	Scratch *Scratch
}

// Intermediates returns the outputs of every non-final step
func (p *Plan) Intermediates() []string {
	if len(p.Steps) < 2 {
		return nil
	}
	paths := make([]string, 0, len(p.Steps)-1)
	for _, s := range p.Steps[:len(p.Steps)-1] {
		paths = append(paths, s.Output)
	}
	return paths
}

// PlannerConfig configures a Planner
type PlannerConfig struct {
	// ToolPath is the avrotize executable, defaults to DefaultToolPath
	ToolPath string
	// TempDir is the task scoped directory for intermediate artifacts, defaults to os.TempDir()
	TempDir string
	// Graph is the capability graph, defaults to DefaultGraph(false)
	Graph *Graph
	// MaxHops defaults to DefaultMaxHops
	MaxHops int
	// Stage makes single file outputs land next to their destination under a
	// hidden name, only moving into place once the step succeeds
	Stage bool
}

// Planner resolves format pairs into concrete plans
//
// A Planner holds no mutable state and is safe for concurrent use.
type Planner struct {
	tool    string
	tempDir string
	graph   *Graph
	maxHops int
	stage   bool
}

// NewPlanner creates a planner, filling unset config fields with defaults
func NewPlanner(cfg PlannerConfig) *Planner {
	p := &Planner{
		tool:    cfg.ToolPath,
		tempDir: cfg.TempDir,
		graph:   cfg.Graph,
		maxHops: cfg.MaxHops,
		stage:   cfg.Stage,
	}
	if p.tool == "" {
		p.tool = DefaultToolPath
	}
	if p.tempDir == "" {
		p.tempDir = os.TempDir()
	}
	if p.graph == nil {
		p.graph = DefaultGraph(false)
	}
	if p.maxHops < 1 {
		p.maxHops = DefaultMaxHops
	}
	return p
}

// ToolPath returns the executable used by planned steps
func (p *Planner) ToolPath() string {
	return p.tool
}

// Graph returns the planner's capability graph
func (p *Planner) Graph() *Graph {
	return p.graph
}

// Resolve finds the edges converting source to target without building a plan
func (p *Planner) Resolve(source, target Format) ([]ConversionEdge, error) {
	edges, ok := p.graph.Path(source, target, p.maxHops)
	if !ok {
		return nil, &UnsupportedConversionError{Source: source, Target: target}
	}
	return edges, nil
}

// Plan builds the steps converting input from source to target into outputDir
//
// Planning has no side effects, the scratch directory is only created when the plan is executed.
func (p *Planner) Plan(source, target Format, input, outputDir string, opts ConversionOptions) (*Plan, error) {
	edges, err := p.Resolve(source, target)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Source:  source,
		Target:  target,
		Input:   input,
		Steps:   make([]Step, 0, len(edges)),
		Scratch: p.scratchFor(input),
	}

	base := filepath.Base(input)
	current := input

	for i, edge := range edges {
		var out, dest string
		stepOpts := ConversionOptions{}

		if i == len(edges)-1 {
			out = finalOutput(edge, base, outputDir)
			stepOpts = opts
			if p.stage && edge.Output == OutputFile {
				dest = out
				out = stagedPath(dest)
			}
		} else {
			out = plan.Scratch.path(base + edge.Target.Extension())
		}

		plan.Steps = append(plan.Steps, Step{
			Edge:       edge,
			Executable: p.tool,
			Args:       edge.Args(current, out, stepOpts),
			Input:      current,
			Output:     out,
			Dest:       dest,
		})
		current = out
	}

	return plan, nil
}

func (p *Planner) scratchFor(input string) *Scratch {
	abs, err := filepath.Abs(input)
	if err != nil {
		abs = input
	}
	sum := sha256.Sum256([]byte(abs))
	return &Scratch{Dir: filepath.Join(p.tempDir, hex.EncodeToString(sum[:])[:12])}
}

func finalOutput(edge ConversionEdge, base, outputDir string) string {
	if edge.Output == OutputDirectory {
		return outputDir
	}
	return filepath.Join(outputDir, strings.TrimSuffix(base, filepath.Ext(base))+edge.Target.Extension())
}

func stagedPath(dest string) string {
	return filepath.Join(filepath.Dir(dest), ".schemaconv-"+filepath.Base(dest))
}

// Destination returns where the plan's final artifact ends up
func (p *Plan) Destination() string {
	if len(p.Steps) == 0 {
		return ""
	}
	last := p.Steps[len(p.Steps)-1]
	if last.Dest != "" {
		return last.Dest
	}
	return last.Output
}

// String renders the plan as one command per line
func (p *Plan) String() string {
	var sb strings.Builder
	for i, s := range p.Steps {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprint(&sb, strings.Join(s.Command(), " "))
	}
	return sb.String()
}

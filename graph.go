// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package schemaconv

import (
	"fmt"
	"slices"
)

// OutputKind describes what an edge's --out argument points at
type OutputKind int

const (
	// OutputFile means the tool writes exactly one file at the given path
	OutputFile OutputKind = iota
	// OutputDirectory means the tool names and writes files inside the given directory
	OutputDirectory
)

// ConversionOptions are optional parameters threaded through a plan
type ConversionOptions struct {
	// PackageName is the target package for code generation
	PackageName string
	// NamingMode controls field naming for proto output, the edge default is used when empty
	NamingMode string
	// Annotation is the annotation flag for code generation, the edge default is used when empty
	Annotation string
}

// ConversionEdge is a single conversion the external tool supports directly
type ConversionEdge struct {
	Source     Format
	Target     Format
	Subcommand string
	Output     OutputKind

	// AcceptsPackage is set for code generation edges
	AcceptsPackage bool
	// NamingMode is the fixed --naming-mode value for proto emitting edges
	NamingMode string
	// Annotation is the fixed annotation flag for code generation edges
	Annotation string
}

// String implements fmt.Stringer
func (e ConversionEdge) String() string {
	return fmt.Sprintf("%s→%s (%s)", e.Source, e.Target, e.Subcommand)
}

// Args builds the argument list for the tool, excluding the executable
//
// Options the edge does not understand are dropped.
func (e ConversionEdge) Args(input, output string, opts ConversionOptions) []string {
	args := []string{e.Subcommand, input, "--out", output}

	if e.NamingMode != "" {
		mode := e.NamingMode
		if opts.NamingMode != "" {
			mode = opts.NamingMode
		}
		args = append(args, "--naming-mode", mode)
	}

	if e.Annotation != "" {
		annotation := e.Annotation
		if opts.Annotation != "" {
			annotation = opts.Annotation
		}
		args = append(args, annotation)
	}

	if e.AcceptsPackage && opts.PackageName != "" {
		args = append(args, "--package", opts.PackageName)
	}

	return args
}

// Lifecycle is the message logged when the edge runs
func (e ConversionEdge) Lifecycle() string {
	if e.Target.IsCodeGen() || e.Target == FormatProto {
		return fmt.Sprintf("Generating %s from %s", e.Target.Description(), e.Source.Description())
	}
	return fmt.Sprintf("Converting %s to %s", e.Source.Description(), e.Target.Description())
}

const (
	namingModeSnake   = "snake"
	jacksonAnnotation = "--jackson-annotation"
)

// DefaultEdges are the conversions planned by default
//
// Declaration order is significant: it breaks ties between paths of equal length.
var DefaultEdges = []ConversionEdge{
	{Source: FormatJSONSchema, Target: FormatAvro, Subcommand: "j2a", Output: OutputFile},
	{Source: FormatAvro, Target: FormatJSONSchema, Subcommand: "a2j", Output: OutputFile},
	{Source: FormatAvro, Target: FormatJava, Subcommand: "a2java", Output: OutputDirectory, AcceptsPackage: true, Annotation: jacksonAnnotation},
	{Source: FormatAvro, Target: FormatProto, Subcommand: "a2p", Output: OutputDirectory, NamingMode: namingModeSnake},
}

// DirectEdges are single invocation JSON Schema conversions that skip the Avro round trip
var DirectEdges = []ConversionEdge{
	{Source: FormatJSONSchema, Target: FormatJava, Subcommand: "s2java", Output: OutputDirectory, AcceptsPackage: true, Annotation: jacksonAnnotation},
	{Source: FormatJSONSchema, Target: FormatProto, Subcommand: "s2p", Output: OutputDirectory, NamingMode: namingModeSnake},
}

type edgeKey struct {
	source, target Format
}

// Graph is an immutable set of conversion edges
type Graph struct {
	edges []ConversionEdge
	index map[edgeKey]int
}

// NewGraph builds a graph from edges, earlier edges win ties during path search
func NewGraph(edges ...ConversionEdge) (*Graph, error) {
	g := &Graph{
		edges: make([]ConversionEdge, 0, len(edges)),
		index: make(map[edgeKey]int, len(edges)),
	}

	for _, e := range edges {
		if e.Subcommand == "" {
			return nil, fmt.Errorf("edge %s→%s has no subcommand", e.Source, e.Target)
		}
		if e.Source == e.Target {
			return nil, fmt.Errorf("edge %s is a self loop", e)
		}
		key := edgeKey{e.Source, e.Target}
		if _, ok := g.index[key]; ok {
			return nil, fmt.Errorf("duplicate edge %s→%s", e.Source, e.Target)
		}
		g.index[key] = len(g.edges)
		g.edges = append(g.edges, e)
	}

	return g, nil
}

// DefaultGraph returns the built-in capability graph
//
// When direct is set, the single invocation JSON Schema edges are included.
func DefaultGraph(direct bool) *Graph {
	edges := slices.Clone(DefaultEdges)
	if direct {
		edges = append(edges, DirectEdges...)
	}
	g, err := NewGraph(edges...)
	if err != nil {
		panic(err) // the built-in tables are static
	}
	return g
}

// Edge returns the direct edge from source to target, if declared
func (g *Graph) Edge(source, target Format) (ConversionEdge, bool) {
	i, ok := g.index[edgeKey{source, target}]
	if !ok {
		return ConversionEdge{}, false
	}
	return g.edges[i], true
}

// Edges returns every edge in declaration order
func (g *Graph) Edges() []ConversionEdge {
	return slices.Clone(g.edges)
}

// Path finds the shortest sequence of edges from source to target
//
// The search is breadth-first, visiting outgoing edges in declaration order,
// so among equal-length paths the one built from earlier declared edges wins.
// Paths longer than maxHops are not considered.
func (g *Graph) Path(source, target Format, maxHops int) ([]ConversionEdge, bool) {
	if source == target || maxHops < 1 {
		return nil, false
	}

	if e, ok := g.Edge(source, target); ok {
		return []ConversionEdge{e}, true
	}

	type node struct {
		format Format
		path   []ConversionEdge
	}

	visited := map[Format]bool{source: true}
	frontier := []node{{format: source}}

	for depth := 0; depth < maxHops && len(frontier) > 0; depth++ {
		var next []node
		for _, n := range frontier {
			for _, e := range g.edges {
				if e.Source != n.format || visited[e.Target] {
					continue
				}
				path := append(slices.Clone(n.path), e)
				if e.Target == target {
					return path, true
				}
				visited[e.Target] = true
				next = append(next, node{format: e.Target, path: path})
			}
		}
		frontier = next
	}

	return nil, false
}

package graph

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures DOT export.
type DOTOptions struct {
	// Path highlights these states and the edges between consecutive ones.
	Path []string
	// PathCosts[i] is the cost of the edge taken from Path[i] to Path[i+1].
	// Among parallel edges only the one with that cost is highlighted; without
	// PathCosts the first one is.
	PathCosts []float64
	// Start and Goal get distinct node shapes when set.
	Start, Goal string
	// ShowHeuristic appends each node's estimate to its label.
	ShowHeuristic bool
}

// ToDOT converts g to Graphviz DOT. Nodes and edges are emitted in insertion
// order so the output is stable.
func ToDOT(g *Graph, opts DOTOptions) string {
	onPath := make(map[string]bool, len(opts.Path))
	taken := make(map[[2]string][]float64, len(opts.Path))
	for i, s := range opts.Path {
		onPath[s] = true
		if i > 0 {
			c := math.NaN()
			if i-1 < len(opts.PathCosts) {
				c = opts.PathCosts[i-1]
			}
			k := [2]string{opts.Path[i-1], s}
			taken[k] = append(taken[k], c)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	for _, id := range g.order {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(g, id, opts.ShowHeuristic))}
		switch id {
		case opts.Start:
			attrs = append(attrs, "shape=doublecircle")
		case opts.Goal:
			attrs = append(attrs, "shape=doubleoctagon")
		}
		if onPath[id] {
			attrs = append(attrs, "fillcolor=\"#ffd166\"", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, from := range g.order {
		for _, e := range g.adj[from] {
			attrs := []string{fmt.Sprintf("label=%q", formatCost(e.Cost))}
			if takeEdge(taken, [2]string{from, e.To}, e.Cost) {
				attrs = append(attrs, "color=\"#ef476f\"", "penwidth=3")
			}
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from, e.To, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// takeEdge reports whether an edge k with the given cost is still owed to the
// path, and consumes it. NaN matches any cost.
func takeEdge(taken map[[2]string][]float64, k [2]string, cost float64) bool {
	costs := taken[k]
	for i, c := range costs {
		if math.IsNaN(c) || c == cost {
			taken[k] = slices.Delete(costs, i, i+1)
			return true
		}
	}
	return false
}

func nodeLabel(g *Graph, id string, heuristic bool) string {
	if !heuristic {
		return id
	}
	return id + "\nh=" + formatCost(g.heuristic[id])
}

func formatCost(c float64) string {
	return strconv.FormatFloat(c, 'g', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

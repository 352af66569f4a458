package graph

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/searchlab/pkg/errors"
)

// Format identifies a graph file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported graph file extension %q (want .json, .toml, .yaml)", filepath.Ext(path))
	}
}

// Document is a decoded graph file: the graph plus the default query it
// declares. Start and Goal may be empty when the file does not name them.
type Document struct {
	Graph *Graph
	Start string
	Goal  string
}

// Problem binds the document's default start and goal, letting non-empty
// arguments override them.
func (d *Document) Problem(start, goal string) (*Problem, error) {
	if start == "" {
		start = d.Start
	}
	if goal == "" {
		goal = d.Goal
	}
	if start == "" || goal == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "start and goal are required")
	}
	return d.Graph.Problem(start, goal)
}

type fileGraph struct {
	Start      string     `json:"start,omitempty" toml:"start" yaml:"start,omitempty"`
	Goal       string     `json:"goal,omitempty" toml:"goal" yaml:"goal,omitempty"`
	Undirected bool       `json:"undirected,omitempty" toml:"undirected" yaml:"undirected,omitempty"`
	Nodes      []fileNode `json:"nodes,omitempty" toml:"nodes" yaml:"nodes,omitempty"`
	Edges      []fileEdge `json:"edges" toml:"edges" yaml:"edges"`
}

type fileNode struct {
	ID        string   `json:"id" toml:"id" yaml:"id"`
	Heuristic *float64 `json:"heuristic,omitempty" toml:"heuristic" yaml:"heuristic,omitempty"`
}

type fileEdge struct {
	From string   `json:"from" toml:"from" yaml:"from"`
	To   string   `json:"to" toml:"to" yaml:"to"`
	Cost *float64 `json:"cost,omitempty" toml:"cost" yaml:"cost,omitempty"`
}

// Read decodes a graph document from r.
//
// The document lists optional nodes (with an optional heuristic each) and
// edges. Edges without a cost weigh 1; endpoints not listed under nodes are
// created on first use. With undirected set, every edge is added in both
// directions. In JSON:
//
//	{
//	  "start": "A", "goal": "G",
//	  "nodes": [{"id": "A", "heuristic": 11}, {"id": "G", "heuristic": 0}],
//	  "edges": [{"from": "A", "to": "G", "cost": 12}]
//	}
//
// Read does not close r.
func Read(r io.Reader, format Format) (*Document, error) {
	var data fileGraph
	if err := decode(r, format, &data); err != nil {
		return nil, err
	}

	g := New()
	for _, n := range data.Nodes {
		if err := g.AddNode(n.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedProblem, err, "node %q", n.ID)
		}
	}
	for _, e := range data.Edges {
		cost := 1.0
		if e.Cost != nil {
			cost = *e.Cost
		}
		add := g.AddEdge
		if data.Undirected {
			add = g.AddUndirected
		}
		if err := add(e.From, e.To, cost); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedProblem, err, "edge %s->%s", e.From, e.To)
		}
	}
	for _, n := range data.Nodes {
		if n.Heuristic == nil {
			continue
		}
		if err := g.SetHeuristic(n.ID, *n.Heuristic); err != nil {
			return nil, err
		}
	}

	return &Document{Graph: g, Start: data.Start, Goal: data.Goal}, nil
}

func decode(r io.Reader, format Format, v any) error {
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(v)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(v)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(v)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported graph format %q", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	return nil
}

// Load reads the graph file at path, choosing the decoder by extension.
func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, format)
}

// WriteJSON encodes d as a JSON document that Read accepts. Edges are listed
// per node in insertion order.
func WriteJSON(w io.Writer, d *Document) error {
	data := fileGraph{Start: d.Start, Goal: d.Goal}
	for _, id := range d.Graph.order {
		n := fileNode{ID: id}
		if h, ok := d.Graph.heuristic[id]; ok {
			n.Heuristic = &h
		}
		data.Nodes = append(data.Nodes, n)
		for _, e := range d.Graph.adj[id] {
			data.Edges = append(data.Edges, fileEdge{From: id, To: e.To, Cost: &e.Cost})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

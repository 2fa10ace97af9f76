package graph

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Graph is a typed attributed directed graph. It is built once and frozen;
// a frozen graph is safe for concurrent readers.
type Graph struct {
	nodes     map[string]*Node
	order     []string
	edges     []Edge
	edgeIndex map[string]int
	out       map[string][]int
	in        map[string][]int
	frozen    bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[string]*Node),
		edgeIndex: make(map[string]int),
		out:       make(map[string][]int),
		in:        make(map[string][]int),
	}
}

// AddNode inserts a node. Adding an id that already exists with the same kind
// is a no-op, the first attributes win.
func (g *Graph) AddNode(n Node) error {
	if g.frozen {
		return ErrFrozen
	}
	if strings.TrimSpace(n.ID) == "" {
		return &IntegrityError{Op: "add node", Reason: "node id is empty"}
	}

	if existing, ok := g.nodes[n.ID]; ok {
		if existing.Kind != n.Kind {
			return &IntegrityError{
				Op:     "add node",
				Reason: fmt.Sprintf("node already exists with kind %s, got %s", existing.Kind, n.Kind),
				NodeID: n.ID,
			}
		}
		return nil
	}

	g.nodes[n.ID] = &Node{ID: n.ID, Kind: n.Kind, Attributes: n.Attributes.clone()}
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge inserts an edge. Both endpoints must already exist. A repeated
// (from, relation, to) triple is a no-op.
func (g *Graph) AddEdge(e Edge) error {
	if g.frozen {
		return ErrFrozen
	}
	if _, ok := g.nodes[e.From]; !ok {
		return danglingEdge("add edge", e, e.From)
	}
	if _, ok := g.nodes[e.To]; !ok {
		return danglingEdge("add edge", e, e.To)
	}
	g.insertEdge(e)
	return nil
}

func (g *Graph) insertEdge(e Edge) {
	key := e.Key()
	if _, ok := g.edgeIndex[key]; ok {
		return
	}
	e.Attributes = e.Attributes.clone()
	g.edges = append(g.edges, e)
	idx := len(g.edges) - 1
	g.edgeIndex[key] = idx
	g.out[e.From] = append(g.out[e.From], idx)
	g.in[e.To] = append(g.in[e.To], idx)
}

// Freeze forbids further mutation and returns the graph.
func (g *Graph) Freeze() *Graph {
	g.frozen = true
	return g
}

// Frozen reports whether the graph has been frozen.
func (g *Graph) Frozen() bool { return g.frozen }

// Validate checks the referential invariant of every edge.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.nodes[e.From]; !ok {
			return danglingEdge("validate", e, e.From)
		}
		if _, ok := g.nodes[e.To]; !ok {
			return danglingEdge("validate", e, e.To)
		}
	}
	return nil
}

// Node returns the node with the given id. The attributes must be treated as read-only.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Has reports whether a node with the id exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, *g.nodes[id])
	}
	return nodes
}

// NodesOf returns nodes of the given kind in insertion order.
func (g *Graph) NodesOf(kind Kind) []Node {
	var nodes []Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind == kind {
			nodes = append(nodes, *n)
		}
	}
	return nodes
}

// First returns the first node of the given kind, typically the record's root.
func (g *Graph) First(kind Kind) (Node, bool) {
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind == kind {
			return *n, true
		}
	}
	return Node{}, false
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// EdgesOf returns edges with the given relation.
func (g *Graph) EdgesOf(rel Relation) []Edge {
	var edges []Edge
	for _, e := range g.edges {
		if e.Relation == rel {
			edges = append(edges, e)
		}
	}
	return edges
}

// Out returns edges leaving id, optionally restricted to the given relations.
func (g *Graph) Out(id string, rels ...Relation) []Edge {
	return g.collect(g.out[id], rels)
}

// In returns edges entering id, optionally restricted to the given relations.
func (g *Graph) In(id string, rels ...Relation) []Edge {
	return g.collect(g.in[id], rels)
}

// Incident returns edges touching id in either direction.
func (g *Graph) Incident(id string) []Edge {
	return append(g.Out(id), g.In(id)...)
}

func (g *Graph) collect(idx []int, rels []Relation) []Edge {
	edges := make([]Edge, 0, len(idx))
	for _, i := range idx {
		e := g.edges[i]
		if len(rels) > 0 && !slices.Contains(rels, e.Relation) {
			continue
		}
		edges = append(edges, e)
	}
	return edges
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Fingerprint renders the node and edge sets in a canonical order so that two
// graphs with the same sets produce the same string regardless of insertion order.
func (g *Graph) Fingerprint() string {
	lines := make([]string, 0, len(g.nodes)+len(g.edges))
	for _, n := range g.nodes {
		lines = append(lines, fmt.Sprintf("N %s %s %v", n.ID, n.Kind, map[string]any(n.Attributes)))
	}
	for _, e := range g.edges {
		lines = append(lines, fmt.Sprintf("E %s %v", e.Key(), map[string]any(e.Attributes)))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

// Equal reports whether two graphs have identical node and edge sets.
func Equal(a, b *Graph) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Len() != b.Len() || a.EdgeCount() != b.EdgeCount() {
		return false
	}
	return a.Fingerprint() == b.Fingerprint()
}

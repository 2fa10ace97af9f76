package graph

// Snapshot is the plain serialisable form of a graph.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Snapshot exports the graph.
func (g *Graph) Snapshot() Snapshot {
	return Snapshot{Nodes: g.Nodes(), Edges: g.Edges()}
}

// FromSnapshot rebuilds a frozen graph without checking edge endpoints.
// Consumers call Validate before trusting it.
func FromSnapshot(s Snapshot) *Graph {
	g := New()
	for _, n := range s.Nodes {
		if _, ok := g.nodes[n.ID]; ok {
			continue
		}
		g.nodes[n.ID] = &Node{ID: n.ID, Kind: n.Kind, Attributes: n.Attributes.clone()}
		g.order = append(g.order, n.ID)
	}
	for _, e := range s.Edges {
		g.insertEdge(e)
	}
	return g.Freeze()
}

package graph

// Composed is a transient union of two graphs used for cross-graph traversal.
// Nodes sharing an id are merged (left attributes win). Neither input is modified.
type Composed struct {
	*Graph
	left  *Graph
	right *Graph
}

// Compose builds the union view of left and right. Both inputs must be valid.
func Compose(left, right *Graph) (*Composed, error) {
	if err := left.Validate(); err != nil {
		return nil, err
	}
	if err := right.Validate(); err != nil {
		return nil, err
	}

	g := New()
	for _, src := range []*Graph{left, right} {
		for _, id := range src.order {
			n := src.nodes[id]
			if existing, ok := g.nodes[id]; ok {
				if existing.Kind != n.Kind {
					return nil, &IntegrityError{Op: "compose", Reason: "node id shared with different kinds", NodeID: id}
				}
				continue
			}
			g.nodes[id] = &Node{ID: id, Kind: n.Kind, Attributes: n.Attributes.clone()}
			g.order = append(g.order, id)
		}
	}
	for _, src := range []*Graph{left, right} {
		for _, e := range src.edges {
			g.insertEdge(e)
		}
	}

	return &Composed{Graph: g.Freeze(), left: left, right: right}, nil
}

// InLeft reports whether id is a node of the left graph.
func (c *Composed) InLeft(id string) bool { return c.left.Has(id) }

// InRight reports whether id is a node of the right graph.
func (c *Composed) InRight(id string) bool { return c.right.Has(id) }

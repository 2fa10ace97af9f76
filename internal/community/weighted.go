package community

import "sort"

// WeightedGraph is an undirected weighted graph over vertices 0..n-1.
// A self loop is stored once with its full weight.
type WeightedGraph struct {
	adj []map[int]float64
}

// NewWeightedGraph creates a graph with n isolated vertices.
func NewWeightedGraph(n int) *WeightedGraph {
	adj := make([]map[int]float64, n)
	for i := range adj {
		adj[i] = map[int]float64{}
	}
	return &WeightedGraph{adj: adj}
}

// Len returns the number of vertices.
func (g *WeightedGraph) Len() int { return len(g.adj) }

// AddEdge adds w to the weight between i and j.
func (g *WeightedGraph) AddEdge(i, j int, w float64) {
	g.adj[i][j] += w
	if i != j {
		g.adj[j][i] += w
	}
}

// Weight returns the weight between i and j, 0 when they are not linked.
func (g *WeightedGraph) Weight(i, j int) float64 {
	return g.adj[i][j]
}

// Neighbors returns the vertices linked to i, ascending.
func (g *WeightedGraph) Neighbors(i int) []int {
	ns := make([]int, 0, len(g.adj[i]))
	for j := range g.adj[i] {
		ns = append(ns, j)
	}
	sort.Ints(ns)
	return ns
}

// Degree returns the weighted degree of i.
func (g *WeightedGraph) Degree(i int) float64 {
	var d float64
	for _, j := range g.Neighbors(i) {
		d += g.adj[i][j]
	}
	return d
}

// EdgeCount returns the number of distinct links, self loops included.
func (g *WeightedGraph) EdgeCount() int {
	count := 0
	for i := range g.adj {
		for j := range g.adj[i] {
			if j >= i {
				count++
			}
		}
	}
	return count
}

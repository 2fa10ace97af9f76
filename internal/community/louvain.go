package community

import (
	"context"
	"errors"
	"sort"
)

// ErrNotConverged is returned when an algorithm exhausts its iteration budget.
var ErrNotConverged = errors.New("community detection did not converge")

const (
	defaultMaxIterations = 100
	minGain              = 1e-12
)

// Algorithm partitions the vertices of a weighted graph. The returned slice
// holds one community label per vertex.
type Algorithm interface {
	Partition(ctx context.Context, g *WeightedGraph) ([]int, error)
}

// Louvain maximizes modularity by repeated local moving and aggregation.
// Vertices are visited in index order and ties keep the current community,
// so the partition is deterministic.
type Louvain struct {
	// MaxIterations bounds the local moving passes over all levels.
	MaxIterations int
}

// Partition implements Algorithm. The context is checked before every pass.
func (l Louvain) Partition(ctx context.Context, g *WeightedGraph) ([]int, error) {
	budget := l.MaxIterations
	if budget <= 0 {
		budget = defaultMaxIterations
	}

	membership := identity(g.Len())
	level := g
	for {
		comm, moved, passes, err := localMoving(ctx, level, budget)
		if err != nil {
			return nil, err
		}
		budget -= passes
		if !moved {
			break
		}

		comm, k := renumber(comm)
		for i := range membership {
			membership[i] = comm[membership[i]]
		}
		if k == level.Len() {
			break
		}
		level = aggregate(level, comm, k)
	}

	labels, _ := renumber(membership)
	return labels, nil
}

func localMoving(ctx context.Context, g *WeightedGraph, budget int) ([]int, bool, int, error) {
	n := g.Len()
	comm := identity(n)
	degree := make([]float64, n)
	tot := make([]float64, n)
	var m2 float64
	for i := range n {
		degree[i] = g.Degree(i)
		tot[i] = degree[i]
		m2 += degree[i]
	}
	if m2 == 0 {
		return comm, false, 0, nil
	}

	moved := false
	passes := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, false, passes, err
		}
		if passes >= budget {
			return nil, false, passes, ErrNotConverged
		}
		passes++

		changed := false
		for i := range n {
			own := comm[i]
			links := map[int]float64{}
			for _, j := range g.Neighbors(i) {
				if j != i {
					links[comm[j]] += g.Weight(i, j)
				}
			}

			tot[own] -= degree[i]
			best, bestGain := own, links[own]-tot[own]*degree[i]/m2

			candidates := make([]int, 0, len(links))
			for c := range links {
				candidates = append(candidates, c)
			}
			sort.Ints(candidates)
			for _, c := range candidates {
				if gain := links[c] - tot[c]*degree[i]/m2; gain > bestGain+minGain {
					best, bestGain = c, gain
				}
			}

			tot[best] += degree[i]
			if best != own {
				comm[i] = best
				changed, moved = true, true
			}
		}
		if !changed {
			return comm, moved, passes, nil
		}
	}
}

// aggregate collapses every community into one vertex. Internal weight
// becomes a self loop.
func aggregate(g *WeightedGraph, comm []int, k int) *WeightedGraph {
	next := NewWeightedGraph(k)
	for i := range g.Len() {
		for _, j := range g.Neighbors(i) {
			next.adj[comm[i]][comm[j]] += g.Weight(i, j)
		}
	}
	return next
}

// renumber relabels communities 0..k-1 in order of first appearance.
func renumber(labels []int) ([]int, int) {
	mapping := map[int]int{}
	out := make([]int, len(labels))
	for i, l := range labels {
		id, ok := mapping[l]
		if !ok {
			id = len(mapping)
			mapping[l] = id
		}
		out[i] = id
	}
	return out, len(mapping)
}

func identity(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

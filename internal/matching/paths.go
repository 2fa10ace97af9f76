package matching

import (
	"math"

	"github.com/spigell/talentgraph/internal/graph"
)

// saturate maps a non-negative amount of evidence into [0,1) with
// diminishing returns.
func saturate(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return 1 - math.Exp(-x)
}

type knowledgeTransfer struct{}

// NewKnowledgeTransfer creates the knowledge_transfer factor.
func NewKnowledgeTransfer() Factor { return knowledgeTransfer{} }

func (knowledgeTransfer) Name() string    { return FactorKnowledgeTransfer }
func (knowledgeTransfer) Weight() float64 { return 0.05 }

// Score follows candidate -has_skill-> S -related_to-> T in the composed view
// for every required T the candidate does not hold, summing the similarities.
func (knowledgeTransfer) Score(p *Pair) (float64, error) {
	var sum float64
	for _, s := range p.transfers() {
		sum += s.similarity
	}
	return saturate(sum), nil
}

type transfer struct {
	from       string
	to         string
	similarity float64
}

func (p *Pair) transfers() []transfer {
	required := make(map[string]bool, len(p.requirements))
	for _, r := range p.requirements {
		required[r.id] = true
	}

	var found []transfer
	for _, has := range p.composed.Out(p.candidateID, graph.RelationHasSkill) {
		for _, rel := range p.composed.Out(has.To, graph.RelationRelatedTo) {
			if !required[rel.To] || p.held[rel.To] {
				continue
			}
			sim, _ := rel.Attributes.Float(graph.AttrSimilarity)
			if sim <= 0 {
				continue
			}
			found = append(found, transfer{from: nameOf(p.composed.Graph, has.To), to: nameOf(p.composed.Graph, rel.To), similarity: sim})
		}
	}
	return found
}

type hiddenConnections struct{}

// NewHiddenConnections creates the hidden_connections factor.
func NewHiddenConnections() Factor { return hiddenConnections{} }

func (hiddenConnections) Name() string    { return FactorHiddenConnections }
func (hiddenConnections) Weight() float64 { return 0.05 }

// Score counts simple paths of two or three hops in the undirected composed
// view from the candidate to a job-side node the candidate is not directly
// linked to, running through at least one intermediate node that no explicit
// edge of either graph touches.
func (hiddenConnections) Score(p *Pair) (float64, error) {
	return saturate(float64(p.hiddenPaths())), nil
}

func (p *Pair) hiddenPaths() int {
	g := p.composed
	direct := map[string]bool{}
	for _, e := range g.Incident(p.candidateID) {
		direct[e.Other(p.candidateID)] = true
	}

	explicit := map[string]bool{}
	for _, e := range g.Edges() {
		if !e.Inferred() {
			explicit[e.From] = true
			explicit[e.To] = true
		}
	}

	count := 0
	visited := map[string]bool{p.candidateID: true}

	// hidden reports whether an intermediate node before node is unreferenced.
	var walk func(node string, depth int, hidden bool)
	walk = func(node string, depth int, hidden bool) {
		if depth >= 2 && hidden && g.InRight(node) && !direct[node] {
			count++
		}
		if depth == 3 {
			return
		}
		through := hidden || (depth > 0 && !explicit[node])
		for _, e := range g.Incident(node) {
			next := e.Other(node)
			if visited[next] {
				continue
			}
			visited[next] = true
			walk(next, depth+1, through)
			visited[next] = false
		}
	}
	walk(p.candidateID, 0, false)

	return count
}

func nameOf(g *graph.Graph, id string) string {
	n, _ := g.Node(id)
	return nodeName(n)
}

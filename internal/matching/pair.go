package matching

import (
	"sort"
	"strings"

	"github.com/spigell/talentgraph/internal/graph"
	"github.com/spigell/talentgraph/internal/ontology"
)

type heldSkill struct {
	id    string
	name  string
	level float64
}

type requirement struct {
	id         string
	name       string
	importance float64
	minLevel   float64
}

type tenure struct {
	id    string
	title string
	years float64
}

// Pair is the read-only view of one candidate and one job that factors score.
// The composed graph is transient and dropped with the pair.
type Pair struct {
	Candidate *graph.Graph
	Job       *graph.Graph

	candidateID string
	jobID       string
	composed    *graph.Composed
	ontology    ontology.Ontology

	skills       []heldSkill
	held         map[string]bool
	requirements []requirement
	ladder       []string
	matches      []SkillMatch
}

func newPair(candidate, job *graph.Graph, o ontology.Ontology) (*Pair, error) {
	composed, err := graph.Compose(candidate, job)
	if err != nil {
		return nil, err
	}

	root, ok := candidate.First(graph.KindCandidate)
	if !ok {
		return nil, &graph.IntegrityError{Op: opScore, Reason: "candidate graph has no candidate node"}
	}
	jobNode, ok := job.First(graph.KindJob)
	if !ok {
		return nil, &graph.IntegrityError{Op: opScore, Reason: "job graph has no job node"}
	}

	p := &Pair{
		Candidate:   candidate,
		Job:         job,
		candidateID: root.ID,
		jobID:       jobNode.ID,
		composed:    composed,
		ontology:    o,
		held:        map[string]bool{},
	}

	for _, e := range candidate.Out(root.ID, graph.RelationHasSkill) {
		n, _ := candidate.Node(e.To)
		level, _ := e.Attributes.Float(graph.AttrLevel)
		p.skills = append(p.skills, heldSkill{id: n.ID, name: nodeName(n), level: level})
		p.held[n.ID] = true
	}

	for _, e := range job.Out(jobNode.ID, graph.RelationRequiresSkill) {
		n, _ := job.Node(e.To)
		p.requirements = append(p.requirements, requirement{
			id:         n.ID,
			name:       nodeName(n),
			importance: positive(e.Attributes, n.Attributes, graph.AttrImportance),
			minLevel:   positive(e.Attributes, n.Attributes, graph.AttrMinLevel),
		})
	}

	p.ladder = ladder(job)
	return p, nil
}

// CandidateID returns the candidate node id.
func (p *Pair) CandidateID() string { return p.candidateID }

// JobID returns the job node id.
func (p *Pair) JobID() string { return p.jobID }

// roles lists the candidate's performed roles with their tenure.
func (p *Pair) roles() []tenure {
	var roles []tenure
	for _, e := range p.Candidate.Out(p.candidateID, graph.RelationPerformedRole) {
		n, _ := p.Candidate.Node(e.To)
		years, _ := e.Attributes.Float(graph.AttrYears)
		roles = append(roles, tenure{id: n.ID, title: n.Attributes.String(graph.AttrTitle), years: years})
	}
	return roles
}

func (p *Pair) jobTitle() string {
	n, _ := p.Job.Node(p.jobID)
	return n.Attributes.String(graph.AttrTitle)
}

// ladder orders the role nodes of a job graph by rung, bottom first.
func ladder(job *graph.Graph) []string {
	roles := job.NodesOf(graph.KindRole)
	sort.SliceStable(roles, func(i, j int) bool {
		ri, _ := roles[i].Attributes.Float(graph.AttrRung)
		rj, _ := roles[j].Attributes.Float(graph.AttrRung)
		return ri < rj
	})

	ids := make([]string, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	return ids
}

func nodeName(n graph.Node) string {
	if name := n.Attributes.String(graph.AttrName); name != "" {
		return name
	}
	_, name, _ := strings.Cut(n.ID, ":")
	return name
}

// positive reads a numeric attribute from the edge, then the node, and
// defaults to 1 when neither carries a positive value.
func positive(edge, node graph.Attributes, key string) float64 {
	if v, ok := edge.Float(key); ok && v > 0 {
		return v
	}
	if v, ok := node.Float(key); ok && v > 0 {
		return v
	}
	return 1
}

func weight(years float64) float64 {
	if years > 0 {
		return years
	}
	return 1
}

func tokens(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, t := range strings.Fields(strings.ToLower(s)) {
		set[t] = struct{}{}
	}
	return set
}

func jaccard(a, b string) float64 {
	ta, tb := tokens(a), tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(ta)+len(tb)-inter)
}

package builder

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentgraph/internal/graph"
	"github.com/spigell/talentgraph/internal/logger"
	"github.com/spigell/talentgraph/internal/ontology"
	"github.com/spigell/talentgraph/internal/profile"
)

const opBuildJob = "build job"

type requirement struct {
	name       string
	importance float64
	minLevel   float64
}

// BuildJob builds the frozen subgraph of a job record.
func (b *Builder) BuildJob(j *profile.Job) (*graph.Graph, error) {
	if err := j.Validate(); err != nil {
		return nil, &graph.IntegrityError{Op: opBuildJob, Reason: "invalid job record", Err: err}
	}

	g := graph.New()
	root := graph.NodeID(graph.KindJob, j.ID)
	err := g.AddNode(graph.Node{
		ID:   root,
		Kind: graph.KindJob,
		Attributes: graph.Attributes{
			graph.AttrTitle:     strings.TrimSpace(j.Title),
			graph.AttrCompany:   strings.TrimSpace(j.Company),
			graph.AttrSeniority: strings.TrimSpace(j.Seniority),
			graph.AttrMinYears:  j.MinYears,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := b.addRequirements(g, root, j.RequiredSkills); err != nil {
		return nil, err
	}

	if industry, inferred, ok := b.resolveIndustry(j.Industry, j.Company); ok {
		id, err := b.industryNode(g, industry, inferred)
		if err != nil {
			return nil, err
		}
		attrs := graph.Attributes{}
		if inferred {
			attrs[graph.AttrInferred] = true
		}
		if err := g.AddEdge(graph.Edge{From: root, To: id, Relation: graph.RelationInIndustry, Attributes: attrs}); err != nil {
			return nil, err
		}
	}

	if err := b.addLadder(g, j.Title); err != nil {
		return nil, err
	}

	b.logger.Debug("job graph built",
		zap.String(logger.FieldJob, j.ID),
		zap.Int("nodes", g.Len()),
		zap.Int("edges", g.EdgeCount()),
	)

	return g.Freeze(), nil
}

func (b *Builder) addRequirements(g *graph.Graph, root string, skills []profile.RequiredSkill) error {
	reqs := make([]requirement, 0, len(skills))
	index := make(map[string]int, len(skills))
	for _, s := range skills {
		name := ontology.Canonical(b.ontology, s.Name)
		if name == "" {
			continue
		}
		if i, ok := index[name]; ok {
			reqs[i].importance = max(reqs[i].importance, s.EffectiveImportance())
			reqs[i].minLevel = max(reqs[i].minLevel, s.EffectiveMinLevel())
			continue
		}
		index[name] = len(reqs)
		reqs = append(reqs, requirement{name: name, importance: s.EffectiveImportance(), minLevel: s.EffectiveMinLevel()})
	}

	for _, r := range reqs {
		id := graph.NodeID(graph.KindSkill, r.name)
		attrs := graph.Attributes{graph.AttrImportance: r.importance, graph.AttrMinLevel: r.minLevel}
		nodeAttrs := graph.Attributes{graph.AttrName: r.name, graph.AttrImportance: r.importance, graph.AttrMinLevel: r.minLevel}
		if err := g.AddNode(graph.Node{ID: id, Kind: graph.KindSkill, Attributes: nodeAttrs}); err != nil {
			return err
		}
		if err := g.AddEdge(graph.Edge{From: root, To: id, Relation: graph.RelationRequiresSkill, Attributes: attrs}); err != nil {
			return err
		}
	}
	return nil
}

// addLadder adds the role rungs implied by the title, the title itself last,
// linked bottom-up with promotes_to.
func (b *Builder) addLadder(g *graph.Graph, title string) error {
	title = strings.TrimSpace(title)

	var rungs []string
	seen := map[string]bool{}
	for _, rung := range b.roles.Ladder(title) {
		k := key(rung)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		rungs = append(rungs, strings.TrimSpace(rung))
	}
	if len(rungs) == 0 || key(rungs[len(rungs)-1]) != key(title) {
		if seen[key(title)] {
			b.logger.Debug("role hierarchy places the title below other rungs", zap.String("title", title))
		} else {
			rungs = append(rungs, title)
		}
	}

	var prev string
	for i, rung := range rungs {
		id := graph.NodeID(graph.KindRole, key(rung))
		attrs := graph.Attributes{graph.AttrTitle: rung, graph.AttrRung: i}
		if key(rung) != key(title) {
			attrs[graph.AttrInferred] = true
		}
		if err := g.AddNode(graph.Node{ID: id, Kind: graph.KindRole, Attributes: attrs}); err != nil {
			return err
		}
		if prev != "" {
			if err := g.AddEdge(graph.Edge{
				From:       prev,
				To:         id,
				Relation:   graph.RelationPromotesTo,
				Attributes: graph.Attributes{graph.AttrInferred: true},
			}); err != nil {
				return err
			}
		}
		prev = id
	}
	return nil
}

package builder

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentgraph/internal/graph"
	"github.com/spigell/talentgraph/internal/logger"
	"github.com/spigell/talentgraph/internal/ontology"
	"github.com/spigell/talentgraph/internal/profile"
)

const opBuildCandidate = "build candidate"

type heldSkill struct {
	name  string
	level float64
}

type tenure struct {
	name  string
	years float64
}

// BuildCandidate builds the frozen subgraph of a candidate record.
func (b *Builder) BuildCandidate(c *profile.Candidate) (*graph.Graph, error) {
	if err := c.Validate(); err != nil {
		return nil, &graph.IntegrityError{Op: opBuildCandidate, Reason: "invalid candidate record", Err: err}
	}

	g := graph.New()
	root := graph.NodeID(graph.KindCandidate, c.ID)
	err := g.AddNode(graph.Node{
		ID:   root,
		Kind: graph.KindCandidate,
		Attributes: graph.Attributes{
			graph.AttrName:      c.Name,
			graph.AttrSeniority: strings.TrimSpace(c.Seniority),
			graph.AttrYears:     c.TotalYears(),
		},
	})
	if err != nil {
		return nil, err
	}

	if err := b.addSkills(g, root, c.Skills); err != nil {
		return nil, err
	}
	if err := b.addExperience(g, root, c.Experience); err != nil {
		return nil, err
	}
	if err := b.addEducation(g, root, c.Education); err != nil {
		return nil, err
	}

	b.logger.Debug("candidate graph built",
		zap.String(logger.FieldCandidate, c.ID),
		zap.Int("nodes", g.Len()),
		zap.Int("edges", g.EdgeCount()),
	)

	return g.Freeze(), nil
}

func (b *Builder) addSkills(g *graph.Graph, root string, skills []profile.Skill) error {
	// duplicates after canonicalisation keep their highest level
	held := make([]heldSkill, 0, len(skills))
	index := make(map[string]int, len(skills))
	for _, s := range skills {
		name := ontology.Canonical(b.ontology, s.Name)
		if name == "" {
			continue
		}
		if i, ok := index[name]; ok {
			held[i].level = max(held[i].level, s.Level)
			continue
		}
		index[name] = len(held)
		held = append(held, heldSkill{name: name, level: s.Level})
	}

	for _, s := range held {
		id := graph.NodeID(graph.KindSkill, s.name)
		if err := g.AddNode(graph.Node{
			ID:         id,
			Kind:       graph.KindSkill,
			Attributes: graph.Attributes{graph.AttrName: s.name, graph.AttrLevel: s.level},
		}); err != nil {
			return err
		}
		if err := g.AddEdge(graph.Edge{
			From:       root,
			To:         id,
			Relation:   graph.RelationHasSkill,
			Attributes: graph.Attributes{graph.AttrLevel: s.level},
		}); err != nil {
			return err
		}
	}

	for _, s := range held {
		from := graph.NodeID(graph.KindSkill, s.name)
		attached := 0
		for _, rel := range b.ontology.RelatedSkills(s.name) {
			if attached >= b.relatedLimit {
				break
			}
			name := ontology.Canonical(b.ontology, rel.Name)
			if _, own := index[name]; own || rel.Similarity <= 0 {
				continue
			}

			to := graph.NodeID(graph.KindSkill, name)
			if err := g.AddNode(graph.Node{
				ID:         to,
				Kind:       graph.KindSkill,
				Attributes: graph.Attributes{graph.AttrName: name, graph.AttrInferred: true},
			}); err != nil {
				return err
			}
			if err := g.AddEdge(graph.Edge{
				From:       from,
				To:         to,
				Relation:   graph.RelationRelatedTo,
				Attributes: graph.Attributes{graph.AttrSimilarity: rel.Similarity, graph.AttrInferred: true},
			}); err != nil {
				return err
			}
			attached++
		}
	}

	return nil
}

func (b *Builder) addExperience(g *graph.Graph, root string, experience []profile.Experience) error {
	companies, companyIndex := []tenure{}, map[string]int{}
	roles, roleIndex := []tenure{}, map[string]int{}
	industries := map[string][]profile.Experience{}

	for _, e := range experience {
		ck := key(e.Company)
		if i, ok := companyIndex[ck]; ok {
			companies[i].years += e.Years
		} else {
			companyIndex[ck] = len(companies)
			companies = append(companies, tenure{name: strings.TrimSpace(e.Company), years: e.Years})
		}
		industries[ck] = append(industries[ck], e)

		rk := key(e.Title)
		if i, ok := roleIndex[rk]; ok {
			roles[i].years += e.Years
		} else {
			roleIndex[rk] = len(roles)
			roles = append(roles, tenure{name: strings.TrimSpace(e.Title), years: e.Years})
		}
	}

	for _, c := range companies {
		id := graph.NodeID(graph.KindCompany, key(c.name))
		if err := g.AddNode(graph.Node{
			ID:         id,
			Kind:       graph.KindCompany,
			Attributes: graph.Attributes{graph.AttrName: c.name},
		}); err != nil {
			return err
		}
		if err := g.AddEdge(graph.Edge{
			From:       root,
			To:         id,
			Relation:   graph.RelationWorkedAt,
			Attributes: graph.Attributes{graph.AttrYears: c.years},
		}); err != nil {
			return err
		}

		for _, e := range industries[key(c.name)] {
			industry, inferred, ok := b.resolveIndustry(e.Industry, c.name)
			if !ok {
				continue
			}
			industryID, err := b.industryNode(g, industry, inferred)
			if err != nil {
				return err
			}
			attrs := graph.Attributes{}
			if inferred {
				attrs[graph.AttrInferred] = true
			}
			if err := g.AddEdge(graph.Edge{From: id, To: industryID, Relation: graph.RelationBelongsTo, Attributes: attrs}); err != nil {
				return err
			}
		}
	}

	for _, r := range roles {
		id := graph.NodeID(graph.KindRole, key(r.name))
		if err := g.AddNode(graph.Node{
			ID:         id,
			Kind:       graph.KindRole,
			Attributes: graph.Attributes{graph.AttrTitle: r.name},
		}); err != nil {
			return err
		}
		if err := g.AddEdge(graph.Edge{
			From:       root,
			To:         id,
			Relation:   graph.RelationPerformedRole,
			Attributes: graph.Attributes{graph.AttrYears: r.years},
		}); err != nil {
			return err
		}
	}

	return nil
}

func (b *Builder) addEducation(g *graph.Graph, root string, education []profile.Education) error {
	for _, e := range education {
		name := strings.TrimSpace(e.Degree)
		if field := strings.TrimSpace(e.Field); field != "" {
			name += " in " + field
		}

		id := graph.NodeID(graph.KindDegree, key(name))
		if err := g.AddNode(graph.Node{
			ID:         id,
			Kind:       graph.KindDegree,
			Attributes: graph.Attributes{graph.AttrName: name, graph.AttrField: strings.TrimSpace(e.Field)},
		}); err != nil {
			return err
		}
		if err := g.AddEdge(graph.Edge{From: root, To: id, Relation: graph.RelationHasDegree}); err != nil {
			return err
		}

		if strings.TrimSpace(e.Institution) == "" {
			continue
		}
		institution := graph.NodeID(graph.KindInstitution, key(e.Institution))
		if err := g.AddNode(graph.Node{
			ID:         institution,
			Kind:       graph.KindInstitution,
			Attributes: graph.Attributes{graph.AttrName: strings.TrimSpace(e.Institution)},
		}); err != nil {
			return err
		}
		if err := g.AddEdge(graph.Edge{From: id, To: institution, Relation: graph.RelationObtainedFrom}); err != nil {
			return err
		}
	}
	return nil
}

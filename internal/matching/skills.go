package matching

import (
	"github.com/spigell/talentgraph/internal/graph"
)

// SimilarityThreshold is the ontology similarity a non-exact skill must
// exceed to count towards a requirement.
const SimilarityThreshold = 0.8

type skillMatch struct{}

// NewSkillMatch creates the skill_match factor.
func NewSkillMatch() Factor { return skillMatch{} }

func (skillMatch) Name() string    { return FactorSkillMatch }
func (skillMatch) Weight() float64 { return 0.35 }

// Score is the importance-weighted mean of the best ratio per requirement,
// 1 when the job requires nothing.
func (skillMatch) Score(p *Pair) (float64, error) {
	matches := p.skillMatches()
	if len(matches) == 0 {
		return 1, nil
	}

	var weighted, total float64
	for _, m := range matches {
		weighted += m.Ratio * m.Importance
		total += m.Importance
	}
	return weighted / total, nil
}

// skillMatches resolves every requirement against the candidate skills once per pair.
func (p *Pair) skillMatches() []SkillMatch {
	if p.matches != nil || len(p.requirements) == 0 {
		return p.matches
	}

	p.matches = make([]SkillMatch, 0, len(p.requirements))
	for _, r := range p.requirements {
		m := SkillMatch{Required: r.name, Importance: r.importance, MinLevel: r.minLevel}
		for _, c := range p.skills {
			ratio, similarity := p.ratio(r, c)
			if ratio > m.Ratio {
				m.Ratio, m.Matched, m.Similarity = ratio, c.name, similarity
			}
		}
		p.matches = append(p.matches, m)
	}
	return p.matches
}

func (p *Pair) ratio(r requirement, c heldSkill) (float64, float64) {
	if c.id == r.id || c.name == r.name {
		return min(c.level/r.minLevel, 1), 1
	}

	similarity := p.similarity(r, c)
	if similarity <= SimilarityThreshold {
		return 0, similarity
	}
	return min(c.level*similarity/r.minLevel, 1), similarity
}

// similarity asks the ontology first and falls back to a related_to edge
// carried by the candidate graph.
func (p *Pair) similarity(r requirement, c heldSkill) float64 {
	sim := p.ontology.Similarity(r.name, c.name)
	for _, e := range p.Candidate.Out(c.id, graph.RelationRelatedTo) {
		if e.To != r.id {
			continue
		}
		if s, ok := e.Attributes.Float(graph.AttrSimilarity); ok && s > sim {
			sim = s
		}
	}
	return sim
}

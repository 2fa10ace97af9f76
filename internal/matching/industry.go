package matching

import "github.com/spigell/talentgraph/internal/graph"

type industryAlignment struct{}

// NewIndustryAlignment creates the industry_alignment factor.
func NewIndustryAlignment() Factor { return industryAlignment{} }

func (industryAlignment) Name() string    { return FactorIndustryAlignment }
func (industryAlignment) Weight() float64 { return 0.15 }

// Score is the years-weighted share of the candidate's companies with a known
// industry that operate in one of the job's industries.
func (industryAlignment) Score(p *Pair) (float64, error) {
	wanted := map[string]bool{}
	for _, e := range p.Job.Out(p.jobID, graph.RelationInIndustry) {
		wanted[e.To] = true
	}
	if len(wanted) == 0 {
		return 0, nil
	}

	var matched, total float64
	for _, worked := range p.Candidate.Out(p.candidateID, graph.RelationWorkedAt) {
		industries := p.Candidate.Out(worked.To, graph.RelationBelongsTo)
		if len(industries) == 0 {
			continue
		}
		years, _ := worked.Attributes.Float(graph.AttrYears)
		w := weight(years)
		total += w
		for _, in := range industries {
			if wanted[in.To] {
				matched += w
				break
			}
		}
	}
	if total == 0 {
		return 0, nil
	}
	return matched / total, nil
}

type roleProgression struct{}

// NewRoleProgression creates the role_progression factor.
func NewRoleProgression() Factor { return roleProgression{} }

func (roleProgression) Name() string    { return FactorRoleProgression }
func (roleProgression) Weight() float64 { return 0.15 }

// Score places the highest ladder rung the candidate performed on the job
// ladder: (i+1)/(k+1) for rung i of k+1, 0 when no rung was performed.
func (roleProgression) Score(p *Pair) (float64, error) {
	if len(p.ladder) == 0 {
		return 0, nil
	}

	performed := map[string]bool{}
	for _, r := range p.roles() {
		performed[r.id] = true
	}

	highest := -1
	for i, id := range p.ladder {
		if performed[id] {
			highest = i
		}
	}
	return float64(highest+1) / float64(len(p.ladder)), nil
}

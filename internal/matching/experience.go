package matching

import "github.com/spigell/talentgraph/internal/graph"

type experienceRelevance struct{}

// NewExperienceRelevance creates the experience_relevance factor.
func NewExperienceRelevance() Factor { return experienceRelevance{} }

func (experienceRelevance) Name() string    { return FactorExperienceRelevance }
func (experienceRelevance) Weight() float64 { return 0.25 }

// Score is the relevance of the best matching performed role. A role on the
// job ladder is fully relevant, any other role counts by title token overlap
// with the job title. When the job states min_years the score is scaled by the
// share of relevance-weighted years covered, so more experience never lowers it.
func (experienceRelevance) Score(p *Pair) (float64, error) {
	roles := p.roles()
	if len(roles) == 0 {
		return 0, nil
	}

	onLadder := make(map[string]bool, len(p.ladder))
	for _, id := range p.ladder {
		onLadder[id] = true
	}
	title := p.jobTitle()

	var best, relevantYears float64
	for _, r := range roles {
		relevance := jaccard(r.title, title)
		if onLadder[r.id] {
			relevance = 1
		}
		best = max(best, relevance)
		relevantYears += relevance * r.years
	}

	job, _ := p.Job.Node(p.jobID)
	if minYears, ok := job.Attributes.Float(graph.AttrMinYears); ok && minYears > 0 {
		best *= min(relevantYears/minYears, 1)
	}
	return best, nil
}

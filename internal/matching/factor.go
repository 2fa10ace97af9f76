package matching

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/spigell/talentgraph/internal/logger"
)

// Factor is a single weighted sub-score of a match.
type Factor interface {
	Name() string
	Weight() float64
	Score(p *Pair) (float64, error)
}

// Step describes the result of executing a factor.
type Step struct {
	Name         string
	Weight       float64
	Score        float64
	Contribution float64
}

// DefaultFactors returns the six factors in breakdown order. Their weights sum to 1.
func DefaultFactors() []Factor {
	return []Factor{
		NewSkillMatch(),
		NewExperienceRelevance(),
		NewIndustryAlignment(),
		NewRoleProgression(),
		NewKnowledgeTransfer(),
		NewHiddenConnections(),
	}
}

// run executes the factors sequentially and collects their steps.
func run(p *Pair, factors []Factor, log *zap.Logger) ([]Step, error) {
	steps := make([]Step, 0, len(factors))
	for _, f := range factors {
		score, err := f.Score(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}
		score = clamp(score)

		step := Step{Name: f.Name(), Weight: f.Weight(), Score: score, Contribution: f.Weight() * score}
		log.Debug("factor step",
			zap.String(logger.FieldFactor, step.Name),
			zap.Float64("score", step.Score),
			zap.Float64("weight", step.Weight),
			zap.Float64("contribution", step.Contribution),
		)
		steps = append(steps, step)
	}
	return steps, nil
}

func clamp(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

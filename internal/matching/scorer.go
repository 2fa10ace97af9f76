// Package matching scores a candidate graph against a job graph. A match is a
// weighted sum of six factors evaluated over the two graphs and the ontology,
// with an auditable breakdown and advisory insights.
package matching

import (
	"go.uber.org/zap"

	"github.com/spigell/talentgraph/internal/graph"
	"github.com/spigell/talentgraph/internal/logger"
	"github.com/spigell/talentgraph/internal/ontology"
)

const opScore = "score"

// Observer receives every produced result.
type Observer interface {
	ObserveMatch(result *MatchResult)
}

// Scorer is safe for concurrent use: it holds only read-only dependencies.
type Scorer struct {
	ontology ontology.Ontology
	factors  []Factor
	observer Observer
	logger   *zap.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver reports every result to o.
func WithObserver(o Observer) Option {
	return func(s *Scorer) { s.observer = o }
}

// WithFactors replaces the default factors.
func WithFactors(factors ...Factor) Option {
	return func(s *Scorer) {
		if len(factors) > 0 {
			s.factors = factors
		}
	}
}

// New creates a scorer around an ontology. A nil ontology knows only exact matches.
func New(o ontology.Ontology, opts ...Option) *Scorer {
	if o == nil {
		o = exactOnly{}
	}
	s := &Scorer{
		ontology: o,
		factors:  DefaultFactors(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the match of a candidate graph against a job graph.
// Graphs with dangling edges or without their root node fail with an
// IntegrityError.
func (s *Scorer) Score(candidate, job *graph.Graph) (*MatchResult, error) {
	if candidate == nil || job == nil {
		return nil, &graph.IntegrityError{Op: opScore, Reason: "graph is nil"}
	}

	p, err := newPair(candidate, job, s.ontology)
	if err != nil {
		return nil, err
	}

	log := logger.WithPair(s.logger, p.CandidateID(), p.JobID())

	steps, err := run(p, s.factors, log)
	if err != nil {
		return nil, err
	}

	result := &MatchResult{
		CandidateID:  p.CandidateID(),
		JobID:        p.JobID(),
		Breakdown:    make(map[string]float64, len(steps)),
		SkillMatches: p.skillMatches(),
	}
	var total float64
	for _, step := range steps {
		result.Breakdown[step.Name] = step.Score
		total += step.Contribution
	}
	result.TotalScore = clamp(total)
	result.Insights = insights(result.Breakdown, result.Missing(), p.transfers())

	log.Debug("match scored", zap.Float64("total_score", result.TotalScore))

	if s.observer != nil {
		s.observer.ObserveMatch(result)
	}
	return result, nil
}

type exactOnly struct{}

func (exactOnly) Similarity(a, b string) float64 {
	if ontology.Canonical(exactOnly{}, a) == ontology.Canonical(exactOnly{}, b) {
		return 1
	}
	return 0
}

func (exactOnly) RelatedSkills(string) []ontology.Related { return nil }

// Package community partitions a candidate population into talent
// communities: cohesive groups of candidates whose pairwise similarity is
// above a threshold, found by modularity maximization.
package community

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talentgraph/internal/graph"
	"github.com/spigell/talentgraph/internal/logger"
	"github.com/spigell/talentgraph/internal/profile"
)

// DefaultThreshold is the similarity a pair must exceed to be linked.
const DefaultThreshold = 0.7

// Observer receives the outcome of every detection run.
type Observer interface {
	ObserveDetection(duration time.Duration, communities int, fallback bool)
}

// Detection is the full outcome of a run.
type Detection struct {
	Communities []CommunityProfile
	// Edges is the number of candidate pairs linked above the threshold.
	Edges int
	// Fallback is set when every candidate was placed in its own community
	// because the graph had no edges or the algorithm did not converge.
	Fallback bool
}

// Detector discovers communities. It holds no mutable state.
type Detector struct {
	similarity SimilarityFunction
	algorithm  Algorithm
	threshold  float64
	observer   Observer
	logger     *zap.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithSimilarity replaces the default feature cosine similarity.
func WithSimilarity(f SimilarityFunction) Option {
	return func(d *Detector) {
		if f != nil {
			d.similarity = f
		}
	}
}

// WithAlgorithm replaces the default Louvain algorithm.
func WithAlgorithm(a Algorithm) Option {
	return func(d *Detector) {
		if a != nil {
			d.algorithm = a
		}
	}
}

// WithThreshold sets the linking threshold. Values outside [0,1) are ignored.
func WithThreshold(t float64) Option {
	return func(d *Detector) {
		if t >= 0 && t < 1 {
			d.threshold = t
		}
	}
}

// WithObserver reports every run to o.
func WithObserver(o Observer) Option {
	return func(d *Detector) { d.observer = o }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDetector creates a detector with cosine similarity, Louvain and a 0.7 threshold.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		similarity: Cosine{},
		algorithm:  Louvain{},
		threshold:  DefaultThreshold,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover partitions candidates into communities. Every candidate appears in
// exactly one community.
func (d *Detector) Discover(ctx context.Context, candidates []*profile.Candidate) ([]CommunityProfile, error) {
	detection, err := d.Detect(ctx, candidates)
	if err != nil {
		return nil, err
	}
	return detection.Communities, nil
}

// Detect runs the detection and reports how the partition was reached. It
// fails only on invalid records or cancellation: a degenerate graph or a
// non-converging algorithm falls back to singleton communities with a warning.
func (d *Detector) Detect(ctx context.Context, candidates []*profile.Candidate) (*Detection, error) {
	start := time.Now()

	if err := checkPopulation(candidates); err != nil {
		return nil, err
	}

	n := len(candidates)
	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
	}

	wg := NewWeightedGraph(n)
	edges := 0
	for i := range n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < n; j++ {
			s := min(max(d.similarity.Similarity(candidates[i], candidates[j]), 0), 1)
			sim[i][j], sim[j][i] = s, s
			if s > d.threshold {
				wg.AddEdge(i, j, s)
				edges++
			}
		}
	}

	detection := &Detection{Edges: edges}
	var labels []int
	switch {
	case n == 0:
	case edges == 0:
		d.logger.Warn("no candidate pairs above the similarity threshold, falling back to singleton communities",
			zap.Int("candidates", n),
			zap.Float64("threshold", d.threshold),
		)
		detection.Fallback = true
	default:
		var err error
		labels, err = d.algorithm.Partition(ctx, wg)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			d.logger.Warn("community detection failed, falling back to singleton communities",
				zap.Int("candidates", n),
				zap.Error(err),
			)
			labels = nil
			detection.Fallback = true
		} else if len(labels) != n {
			d.logger.Warn("community detection returned a partial partition, falling back to singleton communities",
				zap.Int("candidates", n),
				zap.Int("labels", len(labels)),
			)
			labels = nil
			detection.Fallback = true
		}
	}
	if labels == nil {
		labels = identity(n)
	}

	detection.Communities = profiles(candidates, labels, sim, d.similarityExtractor())
	for _, c := range detection.Communities {
		d.logger.Debug("community profiled",
			zap.Int(logger.FieldCommunity, c.ID),
			zap.Int("size", c.Profile.Size),
			zap.Float64("cohesion", c.CohesionScore),
		)
	}

	duration := time.Since(start)
	d.logger.Info("communities detected",
		zap.Int("candidates", n),
		zap.Int("edges", edges),
		zap.Int("communities", len(detection.Communities)),
		zap.Bool("fallback", detection.Fallback),
		zap.Duration("duration", duration),
	)
	if d.observer != nil {
		d.observer.ObserveDetection(duration, len(detection.Communities), detection.Fallback)
	}
	return detection, nil
}

func (d *Detector) similarityExtractor() Extractor {
	if c, ok := d.similarity.(Cosine); ok {
		return c.Extractor
	}
	return Extractor{}
}

func checkPopulation(candidates []*profile.Candidate) error {
	seen := make(map[string]bool, len(candidates))
	for i, c := range candidates {
		if err := c.Validate(); err != nil {
			return &graph.IntegrityError{Op: "discover communities", Reason: fmt.Sprintf("invalid candidate record at %d", i), Err: err}
		}
		id := strings.TrimSpace(c.ID)
		if seen[id] {
			return &graph.IntegrityError{
				Op:     "discover communities",
				Reason: "duplicate candidate id",
				NodeID: graph.NodeID(graph.KindCandidate, id),
			}
		}
		seen[id] = true
	}
	return nil
}

package matching

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/spigell/talentgraph/internal/graph"
	"github.com/spigell/talentgraph/internal/logger"
	"github.com/spigell/talentgraph/internal/ontology"
)

// Source supplies the ontology a ranking pass pins for its duration.
type Source interface {
	Current() *ontology.Store
}

// Ranker scores many candidates against a job on a bounded worker pool.
type Ranker struct {
	source  Source
	pool    *ants.Pool
	minimum float64
	opts    []Option
	logger  *zap.Logger
}

// NewRanker creates a ranker with the given number of workers. Results whose
// total score is below minimum are dropped.
func NewRanker(source Source, workers int, minimum float64, log *zap.Logger, opts ...Option) (*Ranker, error) {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("creating scoring pool: %w", err)
	}

	return &Ranker{
		source:  source,
		pool:    pool,
		minimum: max(minimum, 0),
		opts:    append([]Option{WithLogger(log)}, opts...),
		logger:  log,
	}, nil
}

// Release stops the worker pool. The ranker must not be used afterwards.
func (r *Ranker) Release() {
	r.pool.Release()
}

// Rank scores every candidate against job and returns the results above the
// minimum score, best first with ties ordered by candidate id. The first
// scoring error aborts the pass.
func (r *Ranker) Rank(ctx context.Context, candidates []*graph.Graph, job *graph.Graph) (*Results, error) {
	var o ontology.Ontology
	if r.source != nil {
		if store := r.source.Current(); store != nil {
			o = store
		}
	}
	scorer := New(o, r.opts...)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	results := make([]*MatchResult, len(candidates))

	for i, candidate := range candidates {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			result, err := scorer.Score(candidate, job)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			results[i] = result
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submitting candidate %d: %w", i, err)
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranked := &Results{Items: make([]*MatchResult, 0, len(results))}
	for _, result := range results {
		if result.TotalScore < r.minimum {
			r.logger.Debug("match below minimum score",
				zap.String(logger.FieldCandidate, result.CandidateID),
				zap.Float64("total_score", result.TotalScore),
				zap.Float64("minimum_score", r.minimum),
			)
			continue
		}
		ranked.Items = append(ranked.Items, result)
	}

	sort.SliceStable(ranked.Items, func(i, j int) bool {
		a, b := ranked.Items[i], ranked.Items[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		return a.CandidateID < b.CandidateID
	})

	r.logger.Info("ranking completed",
		zap.Int("candidates", len(candidates)),
		zap.Int("ranked", ranked.Len()),
	)
	return ranked, nil
}

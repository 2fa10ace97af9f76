package builder

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/spigell/talentgraph/internal/graph"
	"github.com/spigell/talentgraph/internal/profile"
)

// BuildCandidates builds graphs for many candidates concurrently, keeping the
// input order. The first failure cancels the remaining work.
func (b *Builder) BuildCandidates(ctx context.Context, candidates []*profile.Candidate, workers int) ([]*graph.Graph, error) {
	graphs := make([]*graph.Graph, len(candidates))

	eg, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}

	for i, c := range candidates {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			g, err := b.BuildCandidate(c)
			if err != nil {
				id := ""
				if c != nil {
					id = c.ID
				}
				return fmt.Errorf("candidate %q: %w", id, err)
			}
			graphs[i] = g
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return graphs, nil
}

// BuildJobs builds graphs for many jobs concurrently, keeping the input order.
func (b *Builder) BuildJobs(ctx context.Context, jobs []*profile.Job, workers int) ([]*graph.Graph, error) {
	graphs := make([]*graph.Graph, len(jobs))

	eg, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}

	for i, j := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			g, err := b.BuildJob(j)
			if err != nil {
				id := ""
				if j != nil {
					id = j.ID
				}
				return fmt.Errorf("job %q: %w", id, err)
			}
			graphs[i] = g
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return graphs, nil
}

package matching

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/talentgraph/internal/graph"
	"github.com/spigell/talentgraph/internal/ontology"
	"github.com/spigell/talentgraph/internal/profile"
)

func rankingFixture(t *testing.T) ([]*graph.Graph, *graph.Graph, *ontology.Registry) {
	t.Helper()

	o := testOntology(t)
	b := testBuilder(t, o)

	job, err := b.BuildJob(&profile.Job{ID: "j", Title: "Engineer", RequiredSkills: []profile.RequiredSkill{
		{Name: "docker", MinLevel: 4},
	}})
	require.NoError(t, err)

	var candidates []*graph.Graph
	for _, c := range []*profile.Candidate{
		{ID: "weak", Skills: []profile.Skill{{Name: "excel", Level: 5}}},
		{ID: "b-exact", Skills: []profile.Skill{{Name: "docker", Level: 4}}},
		{ID: "a-exact", Skills: []profile.Skill{{Name: "docker", Level: 5}}},
		{ID: "near", Skills: []profile.Skill{{Name: "kubernetes", Level: 3}}},
	} {
		g, err := b.BuildCandidate(c)
		require.NoError(t, err)
		candidates = append(candidates, g)
	}

	return candidates, job, ontology.NewRegistry(o)
}

func TestRankerOrdersResults(t *testing.T) {
	candidates, job, registry := rankingFixture(t)

	ranker, err := NewRanker(registry, 2, 0, nil)
	require.NoError(t, err)
	defer ranker.Release()

	results, err := ranker.Rank(context.Background(), candidates, job)
	require.NoError(t, err)
	require.Equal(t, 4, results.Len())

	ids := make([]string, 0, results.Len())
	for _, r := range results.Items {
		ids = append(ids, r.CandidateID)
	}
	assert.Equal(t, []string{"candidate:a-exact", "candidate:b-exact", "candidate:near", "candidate:weak"}, ids)
}

func TestRankerDropsResultsBelowMinimum(t *testing.T) {
	candidates, job, registry := rankingFixture(t)

	ranker, err := NewRanker(registry, 4, 0.3, nil)
	require.NoError(t, err)
	defer ranker.Release()

	results, err := ranker.Rank(context.Background(), candidates, job)
	require.NoError(t, err)
	for _, r := range results.Items {
		assert.GreaterOrEqual(t, r.TotalScore, 0.3)
	}
	assert.Nil(t, results.FindByCandidate("candidate:weak"))
	assert.NotNil(t, results.FindByCandidate("candidate:a-exact"))
}

func TestRankerPinsOntologyPerPass(t *testing.T) {
	candidates, job, registry := rankingFixture(t)

	ranker, err := NewRanker(registry, 1, 0, nil)
	require.NoError(t, err)
	defer ranker.Release()

	empty, err := ontology.NewStore(ontology.Definition{}, nil)
	require.NoError(t, err)
	registry.Swap(empty)

	results, err := ranker.Rank(context.Background(), candidates, job)
	require.NoError(t, err)

	// the related_to edge carried by the candidate graph still credits the near match
	near := results.FindByCandidate("candidate:near")
	require.NotNil(t, near)
	assert.InDelta(t, 0.6375, near.Breakdown[FactorSkillMatch], eps)
}

func TestRankerPropagatesIntegrityErrors(t *testing.T) {
	candidates, job, registry := rankingFixture(t)
	broken := graph.FromSnapshot(graph.Snapshot{
		Nodes: []graph.Node{{ID: "candidate:x", Kind: graph.KindCandidate}},
		Edges: []graph.Edge{{From: "candidate:x", To: "company:nowhere", Relation: graph.RelationWorkedAt}},
	})

	ranker, err := NewRanker(registry, 2, 0, nil)
	require.NoError(t, err)
	defer ranker.Release()

	_, err = ranker.Rank(context.Background(), append(candidates, broken), job)
	assert.ErrorIs(t, err, graph.ErrIntegrity)
}

func TestRankerHonoursCancellation(t *testing.T) {
	candidates, job, registry := rankingFixture(t)

	ranker, err := NewRanker(registry, 1, 0, nil)
	require.NoError(t, err)
	defer ranker.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ranker.Rank(ctx, candidates, job)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultsDumpToTmpFile(t *testing.T) {
	results := &Results{Items: []*MatchResult{{CandidateID: "candidate:a", JobID: "job:j", TotalScore: 0.5}}}

	name, err := results.DumpToTmpFile()
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(name) })

	raw, err := os.ReadFile(name)
	require.NoError(t, err)

	var decoded Results
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Items, 1)
	assert.Equal(t, "candidate:a", decoded.Items[0].CandidateID)
}

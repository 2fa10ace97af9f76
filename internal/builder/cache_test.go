package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/talentgraph/internal/graph"
	"github.com/spigell/talentgraph/internal/profile"
)

func TestCacheRoundTrip(t *testing.T) {
	b := testBuilder(t)
	built, err := b.BuildCandidates(t.Context(), []*profile.Candidate{sampleCandidate()}, 1)
	require.NoError(t, err)

	cache := NewCache(filepath.Join(t.TempDir(), "graphs"), nil)
	key := CacheKey([]byte("candidates"), []byte("ontology"))

	_, ok := cache.Load(key)
	assert.False(t, ok)

	require.NoError(t, cache.Store(key, built))

	loaded, ok := cache.Load(key)
	require.True(t, ok)
	require.Len(t, loaded, 1)
	assert.True(t, graph.Equal(built[0], loaded[0]))
	assert.True(t, loaded[0].Frozen())
}

func TestCacheDiscardsInvalidEntries(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(dir, nil)

	dangling := graph.FromSnapshot(graph.Snapshot{
		Nodes: []graph.Node{{ID: "candidate:x", Kind: graph.KindCandidate}},
		Edges: []graph.Edge{{From: "candidate:x", To: "skill:ghost", Relation: graph.RelationHasSkill}},
	})
	require.NoError(t, cache.Store("dangling", []*graph.Graph{dangling}))

	_, ok := cache.Load("dangling")
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.json"), []byte("{"), 0o600))
	_, ok = cache.Load("garbage")
	assert.False(t, ok)
}

func TestCacheKeySeparatesParts(t *testing.T) {
	assert.NotEqual(t, CacheKey([]byte("ab"), []byte("c")), CacheKey([]byte("a"), []byte("bc")))
	assert.Equal(t, CacheKey([]byte("a")), CacheKey([]byte("a")))
}

package cmd

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/talentgraph/internal/career"
	"github.com/spigell/talentgraph/internal/community"
	"github.com/spigell/talentgraph/internal/matching"
	"github.com/spigell/talentgraph/internal/profile"
)

func sampleResult() *matching.MatchResult {
	return &matching.MatchResult{
		CandidateID: "alice",
		JobID:       "backend",
		TotalScore:  0.6375,
		Breakdown: map[string]float64{
			matching.FactorSkillMatch: 0.75,
		},
		Insights: []string{"Good skill match with some gaps"},
		SkillMatches: []matching.SkillMatch{
			{Required: "kubernetes", Importance: 1, MinLevel: 1, Matched: "docker", Similarity: 0.85, Ratio: 0.85},
			{Required: "rust", Importance: 1, MinLevel: 1},
		},
	}
}

func TestRenderRanking(t *testing.T) {
	var buf bytes.Buffer
	report := jobReport{
		job:     &profile.Job{ID: "backend", Title: "Backend Engineer"},
		results: &matching.Results{Items: []*matching.MatchResult{sampleResult()}},
	}

	require.NoError(t, renderRanking(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "Backend Engineer (backend): 1 candidates")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "0.750")
}

func TestRenderBreakdown(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, renderBreakdown(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "alice x backend")
	assert.Contains(t, out, "docker")
	assert.Contains(t, out, "Good skill match with some gaps")
}

func TestRenderCommunities(t *testing.T) {
	var buf bytes.Buffer
	snapshot := &community.Snapshot{
		ID:       uuid.New(),
		Fallback: true,
		Communities: []community.CommunityProfile{
			{ID: 0, Members: []string{"alice"}, Profile: community.Profile{Size: 1, TopSkills: []string{"go"}}},
		},
	}

	require.NoError(t, renderCommunities(&buf, snapshot))

	out := buf.String()
	assert.Contains(t, out, "1 communities")
	assert.Contains(t, out, "every candidate is its own community")
}

func TestRenderPaths(t *testing.T) {
	var buf bytes.Buffer
	predicted := []career.CareerPath{{
		CurrentRole:    "Software Engineer",
		NextRole:       "Senior Software Engineer",
		RequiredSkills: []string{"system design"},
		EstimatedTime:  18 * monthDuration,
		Probability:    0.7,
	}}

	require.NoError(t, renderPaths(&buf, "alice", predicted))

	out := buf.String()
	assert.Contains(t, out, "alice: 1 career paths")
	assert.Contains(t, out, "18.0")
	assert.Contains(t, out, "0.70")

	buf.Reset()
	require.NoError(t, renderPaths(&buf, "bob", nil))
	assert.Equal(t, "\nbob: 0 career paths\n", buf.String())
}

func TestRenderCandidate(t *testing.T) {
	result := sampleResult()
	result.CandidateID = "candidate:alice"
	reports := []jobReport{{
		job:     &profile.Job{ID: "backend", Title: "Backend Engineer"},
		results: &matching.Results{Items: []*matching.MatchResult{result}},
	}}

	var buf bytes.Buffer
	require.NoError(t, renderCandidate(&buf, reports, "alice"))
	assert.Contains(t, buf.String(), "candidate:alice x backend")

	assert.Error(t, renderCandidate(&buf, reports, "bob"))
}

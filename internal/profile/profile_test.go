package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCandidateWeaklyTyped(t *testing.T) {
	raw := map[string]any{
		"id":   "c1",
		"name": "Ada",
		"skills": []any{
			map[string]any{"name": "python", "level": "5"},
			map[string]any{"name": "sql", "level": 3},
		},
		"experience": []any{
			map[string]any{"company": "Acme", "title": "Software Engineer", "years": 2.5},
		},
		"education": []any{
			map[string]any{"degree": "BSc", "field": "CS", "institution": "MIT"},
		},
	}

	c, err := DecodeCandidate(raw)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "c1", c.ID)
	require.Len(t, c.Skills, 2)
	assert.Equal(t, 5.0, c.Skills[0].Level)
	assert.Equal(t, 2.5, c.TotalYears())
	assert.Equal(t, "MIT", c.Education[0].Institution)
}

func TestCandidateValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		record  *Candidate
		wantErr bool
	}{
		{name: "minimal", record: &Candidate{ID: "c1"}},
		{name: "missing id", record: &Candidate{}, wantErr: true},
		{name: "skill without name", record: &Candidate{ID: "c1", Skills: []Skill{{Level: 2}}}, wantErr: true},
		{name: "negative level", record: &Candidate{ID: "c1", Skills: []Skill{{Name: "go", Level: -1}}}, wantErr: true},
		{name: "experience without company", record: &Candidate{ID: "c1", Experience: []Experience{{Title: "SE"}}}, wantErr: true},
		{name: "nil", record: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.record.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestJobValidateAndDefaults(t *testing.T) {
	j := &Job{ID: "j1", Title: "Backend Engineer", RequiredSkills: []RequiredSkill{{Name: "go"}}}
	require.NoError(t, j.Validate())

	assert.Equal(t, 1.0, j.RequiredSkills[0].EffectiveImportance())
	assert.Equal(t, 1.0, j.RequiredSkills[0].EffectiveMinLevel())

	assert.Error(t, (&Job{ID: "j2"}).Validate(), "title is required")
}

func TestLoadCandidatesAndJobs(t *testing.T) {
	dir := t.TempDir()

	candidatesPath := filepath.Join(dir, "candidates.json")
	require.NoError(t, os.WriteFile(candidatesPath, []byte(`[
  {"id": "c1", "skills": [{"name": "go", "level": 4}]},
  {"id": "c2"}
]`), 0o600))

	candidates, err := LoadCandidates(candidatesPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, candidates.IDs())
	assert.NotNil(t, candidates.FindByID("c2"))
	assert.Nil(t, candidates.FindByID("c3"))

	jobsPath := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(jobsPath, []byte(`
jobs:
  - id: j1
    title: Backend Engineer
    required_skills:
      - name: go
        importance: 5
        min_level: 3
`), 0o600))

	jobs, err := LoadJobs(jobsPath)
	require.NoError(t, err)
	require.Equal(t, 1, jobs.Len())
	assert.Equal(t, 3.0, jobs.FindByID("j1").RequiredSkills[0].MinLevel)

	_, err = LoadJobs(filepath.Join(dir, "jobs.csv"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

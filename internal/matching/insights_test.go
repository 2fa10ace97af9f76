package matching

import (
	"slices"
	"testing"
)

func TestInsights(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		breakdown map[string]float64
		missing   []string
		transfers []transfer
		want      []string
		absent    []string
	}{
		{
			name:      "strong match",
			breakdown: map[string]float64{FactorSkillMatch: 0.95, FactorExperienceRelevance: 0.8, FactorIndustryAlignment: 0.9, FactorRoleProgression: 1},
			want:      []string{"Excellent skill match", "Highly relevant experience", "Strong industry alignment", "Already performing at the target role level"},
			absent:    []string{"Hidden connections found between the candidate's background and the job"},
		},
		{
			name:      "partial match",
			breakdown: map[string]float64{FactorSkillMatch: 0.6, FactorIndustryAlignment: 0.3, FactorRoleProgression: 0.67},
			missing:   []string{"rust", "go"},
			want:      []string{"Good skill match with some gaps", "Missing skills: rust, go", "Natural next step in career progression"},
			absent:    []string{"No experience in the job's industry"},
		},
		{
			name:      "weak match",
			breakdown: map[string]float64{FactorSkillMatch: 0.1, FactorKnowledgeTransfer: 0.5, FactorHiddenConnections: 0.6},
			transfers: []transfer{{from: "kubernetes", to: "docker", similarity: 0.85}},
			want: []string{
				"Significant skill gaps",
				"No experience in the job's industry",
				"Transferable skills: kubernetes -> docker",
				"Hidden connections found between the candidate's background and the job",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := insights(tt.breakdown, tt.missing, tt.transfers)
			for _, want := range tt.want {
				if !slices.Contains(got, want) {
					t.Fatalf("expected insight %q in %v", want, got)
				}
			}
			for _, absent := range tt.absent {
				if slices.Contains(got, absent) {
					t.Fatalf("unexpected insight %q in %v", absent, got)
				}
			}
		})
	}
}

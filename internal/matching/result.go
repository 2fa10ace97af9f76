package matching

import (
	"encoding/json"
	"os"
)

// Factor names used as breakdown keys.
const (
	FactorSkillMatch          = "skill_match"
	FactorExperienceRelevance = "experience_relevance"
	FactorIndustryAlignment   = "industry_alignment"
	FactorRoleProgression     = "role_progression"
	FactorKnowledgeTransfer   = "knowledge_transfer"
	FactorHiddenConnections   = "hidden_connections"
)

// SkillMatch explains how one job requirement was satisfied.
type SkillMatch struct {
	Required   string  `json:"required"`
	Importance float64 `json:"importance"`
	MinLevel   float64 `json:"min_level"`
	Matched    string  `json:"matched,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
	Ratio      float64 `json:"ratio"`
}

// MatchResult is the outcome of scoring one candidate against one job.
// It is not modified after Score returns.
type MatchResult struct {
	CandidateID  string             `json:"candidate_id"`
	JobID        string             `json:"job_id"`
	TotalScore   float64            `json:"total_score"`
	Breakdown    map[string]float64 `json:"breakdown"`
	Insights     []string           `json:"insights"`
	SkillMatches []SkillMatch       `json:"skill_matches,omitempty"`
}

// Missing returns the required skills nothing in the candidate graph satisfied.
func (r *MatchResult) Missing() []string {
	var missing []string
	for _, m := range r.SkillMatches {
		if m.Ratio == 0 {
			missing = append(missing, m.Required)
		}
	}
	return missing
}

// Results is a ranked list of match results.
type Results struct {
	Items []*MatchResult `json:"items"`
}

func (r *Results) Len() int {
	return len(r.Items)
}

// FindByCandidate returns the result of a candidate or nil.
func (r *Results) FindByCandidate(id string) *MatchResult {
	for _, result := range r.Items {
		if result.CandidateID == id {
			return result
		}
	}
	return nil
}

// DumpToTmpFile writes the results as indented JSON into a temporary file
// and returns its name.
func (r *Results) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

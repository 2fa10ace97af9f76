package community

import (
	"strings"

	"github.com/spigell/talentgraph/internal/ontology"
	"github.com/spigell/talentgraph/internal/profile"
	"github.com/spigell/talentgraph/internal/vector"
)

// Feature name prefixes of the candidate feature vector.
const (
	FeatureSkill     = "skill:"
	FeatureSeniority = "seniority:"
	FeatureIndustry  = "industry:"
)

const maxSkillLevel = 5

// SimilarityFunction compares two candidate records. Implementations must be
// symmetric and return values in [0,1].
type SimilarityFunction interface {
	Similarity(a, b *profile.Candidate) float64
}

// SimilarityFunc adapts a function to SimilarityFunction.
type SimilarityFunc func(a, b *profile.Candidate) float64

func (f SimilarityFunc) Similarity(a, b *profile.Candidate) float64 { return f(a, b) }

// IndustryLookup resolves the industry of a company.
type IndustryLookup interface {
	Industry(company string) (string, bool)
}

// Extractor builds the fixed feature vector of a candidate:
//
//	skill:<name>      level / 5, capped at 1 (unspecified levels count as 1)
//	seniority:<name>  1
//	industry:<name>   1 per distinct industry of the candidate's experience
//
// Names are canonicalized through the ontology when one is set.
type Extractor struct {
	Ontology   ontology.Ontology
	Industries IndustryLookup
}

// Features returns the feature vector of c.
func (e Extractor) Features(c *profile.Candidate) vector.Sparse {
	features := vector.Sparse{}
	if c == nil {
		return features
	}

	for _, s := range c.Skills {
		name := e.canonical(s.Name)
		if name == "" {
			continue
		}
		v := min(max(s.Level, 1)/maxSkillLevel, 1)
		features[FeatureSkill+name] = max(features[FeatureSkill+name], v)
	}

	if seniority := normalize(c.Seniority); seniority != "" {
		features[FeatureSeniority+seniority] = 1
	}

	for _, exp := range c.Experience {
		industry := strings.TrimSpace(exp.Industry)
		if industry == "" && e.Industries != nil {
			industry, _ = e.Industries.Industry(exp.Company)
		}
		if industry = normalize(industry); industry != "" {
			features[FeatureIndustry+industry] = 1
		}
	}

	return features
}

func (e Extractor) canonical(name string) string {
	if e.Ontology != nil {
		return ontology.Canonical(e.Ontology, name)
	}
	return normalize(name)
}

// Cosine is the default SimilarityFunction: cosine similarity of the
// extracted feature vectors.
type Cosine struct {
	Extractor Extractor
}

func (c Cosine) Similarity(a, b *profile.Candidate) float64 {
	return vector.CosineSparse(c.Extractor.Features(a), c.Extractor.Features(b))
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

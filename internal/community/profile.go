package community

import (
	"sort"
	"strings"

	"github.com/spigell/talentgraph/internal/profile"
)

const topFeatures = 5

// Profile summarizes the members of a community.
type Profile struct {
	Size int `json:"size"`
	// TopSkills are the most frequent skills, most common first.
	TopSkills []string `json:"top_skills"`
	// Seniority is the majority seniority, empty when no member states one.
	Seniority string `json:"seniority,omitempty"`
	// Industries are the most frequent industries of the members' experience.
	Industries []string `json:"industries,omitempty"`
	// Centroid is the mean feature vector of the members.
	Centroid map[string]float64 `json:"centroid"`
}

// CommunityProfile is one block of the partition.
type CommunityProfile struct {
	ID            int      `json:"id"`
	Members       []string `json:"members"`
	Profile       Profile  `json:"profile"`
	CohesionScore float64  `json:"cohesion_score"`
}

func profiles(candidates []*profile.Candidate, labels []int, sim [][]float64, extractor Extractor) []CommunityProfile {
	groups := map[int][]int{}
	var order []int
	for i, l := range labels {
		if _, ok := groups[l]; !ok {
			order = append(order, l)
		}
		groups[l] = append(groups[l], i)
	}

	result := make([]CommunityProfile, 0, len(order))
	for id, l := range order {
		members := groups[l]
		cp := CommunityProfile{
			ID:            id,
			Members:       make([]string, 0, len(members)),
			Profile:       summarize(candidates, members, extractor),
			CohesionScore: cohesion(members, sim),
		}
		for _, m := range members {
			cp.Members = append(cp.Members, candidates[m].ID)
		}
		result = append(result, cp)
	}
	return result
}

// cohesion is the mean similarity over all internal pairs, 0 for a singleton.
func cohesion(members []int, sim [][]float64) float64 {
	if len(members) < 2 {
		return 0
	}
	var sum float64
	pairs := 0
	for a := range members {
		for b := a + 1; b < len(members); b++ {
			sum += sim[members[a]][members[b]]
			pairs++
		}
	}
	return sum / float64(pairs)
}

func summarize(candidates []*profile.Candidate, members []int, extractor Extractor) Profile {
	p := Profile{Size: len(members), Centroid: map[string]float64{}}

	skills, seniority, industries := map[string]int{}, map[string]int{}, map[string]int{}
	for _, m := range members {
		features := extractor.Features(candidates[m])
		for _, k := range features.Keys() {
			p.Centroid[k] += features[k] / float64(len(members))

			switch {
			case strings.HasPrefix(k, FeatureSkill):
				skills[strings.TrimPrefix(k, FeatureSkill)]++
			case strings.HasPrefix(k, FeatureSeniority):
				seniority[strings.TrimPrefix(k, FeatureSeniority)]++
			case strings.HasPrefix(k, FeatureIndustry):
				industries[strings.TrimPrefix(k, FeatureIndustry)]++
			}
		}
	}

	p.TopSkills = top(skills, topFeatures)
	if s := top(seniority, 1); len(s) == 1 {
		p.Seniority = s[0]
	}
	p.Industries = top(industries, topFeatures)
	return p
}

// top returns up to n keys by count descending, then name.
func top(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

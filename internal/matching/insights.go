package matching

import (
	"fmt"
	"strings"
)

// insights renders the advisory notes for a breakdown. They never affect the score.
func insights(breakdown map[string]float64, missing []string, transfers []transfer) []string {
	var notes []string

	switch skill := breakdown[FactorSkillMatch]; {
	case skill > 0.8:
		notes = append(notes, "Excellent skill match")
	case skill >= 0.5:
		notes = append(notes, "Good skill match with some gaps")
	default:
		notes = append(notes, "Significant skill gaps")
	}
	if len(missing) > 0 {
		notes = append(notes, "Missing skills: "+strings.Join(missing, ", "))
	}

	if breakdown[FactorExperienceRelevance] > 0.7 {
		notes = append(notes, "Highly relevant experience")
	}

	switch industry := breakdown[FactorIndustryAlignment]; {
	case industry > 0.7:
		notes = append(notes, "Strong industry alignment")
	case industry == 0:
		notes = append(notes, "No experience in the job's industry")
	}

	switch role := breakdown[FactorRoleProgression]; {
	case role >= 1:
		notes = append(notes, "Already performing at the target role level")
	case role > 0.5:
		notes = append(notes, "Natural next step in career progression")
	}

	if breakdown[FactorKnowledgeTransfer] > 0 && len(transfers) > 0 {
		pairs := make([]string, 0, len(transfers))
		for _, t := range transfers {
			pairs = append(pairs, fmt.Sprintf("%s -> %s", t.from, t.to))
		}
		notes = append(notes, "Transferable skills: "+strings.Join(pairs, ", "))
	}

	if breakdown[FactorHiddenConnections] > 0 {
		notes = append(notes, "Hidden connections found between the candidate's background and the job")
	}

	return notes
}

package career

import (
	"strings"
	"time"
)

// Progression is one row of the external career progression table.
type Progression struct {
	NextRole           string        `json:"next_role"`
	SkillGaps          []string      `json:"skill_gaps,omitempty"`
	TypicalDuration    time.Duration `json:"typical_duration"`
	SuccessProbability float64       `json:"success_probability"`
	Recommendations    []string      `json:"recommendations,omitempty"`
}

// ProgressionTable is the read-only role progression knowledge base.
type ProgressionTable interface {
	Progressions(roleTitle string) []Progression
}

// TableFunc adapts a function to ProgressionTable.
type TableFunc func(roleTitle string) []Progression

func (f TableFunc) Progressions(roleTitle string) []Progression { return f(roleTitle) }

// StaticTable is an in-memory table keyed by role title, case-insensitive.
type StaticTable map[string][]Progression

func (t StaticTable) Progressions(roleTitle string) []Progression {
	want := strings.ToLower(strings.TrimSpace(roleTitle))
	for role, rows := range t {
		if strings.ToLower(strings.TrimSpace(role)) == want {
			return rows
		}
	}
	return nil
}

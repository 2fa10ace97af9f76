// Package knowledge serves the injected read-only lookups of the engine from
// a single YAML document: company industries, role ladders and career
// progressions.
package knowledge

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spigell/talentgraph/internal/career"
)

// Document is the on-disk shape of the knowledge file.
type Document struct {
	Industries   map[string]string                  `yaml:"industries"`
	Ladders      [][]string                         `yaml:"ladders"`
	Progressions map[string][]ProgressionDefinition `yaml:"progressions"`
}

// ProgressionDefinition is a progression row as written in the knowledge file.
type ProgressionDefinition struct {
	NextRole           string   `yaml:"next_role"`
	SkillGaps          []string `yaml:"skill_gaps"`
	TypicalMonths      float64  `yaml:"typical_months"`
	SuccessProbability float64  `yaml:"success_probability"`
	Recommendations    []string `yaml:"recommendations"`
}

// Tables implements the industry lookup, the role hierarchy and the career
// progression table. It is immutable once built.
type Tables struct {
	industries   map[string]string
	ladders      [][]string
	progressions map[string][]career.Progression
}

// New builds tables from a document.
func New(doc Document) (*Tables, error) {
	t := &Tables{
		industries:   make(map[string]string, len(doc.Industries)),
		progressions: make(map[string][]career.Progression, len(doc.Progressions)),
	}

	for company, industry := range doc.Industries {
		if key(company) == "" || strings.TrimSpace(industry) == "" {
			continue
		}
		t.industries[key(company)] = strings.TrimSpace(industry)
	}

	for i, ladder := range doc.Ladders {
		rungs := make([]string, 0, len(ladder))
		for _, rung := range ladder {
			if r := strings.TrimSpace(rung); r != "" {
				rungs = append(rungs, r)
			}
		}
		if len(rungs) == 0 {
			return nil, fmt.Errorf("ladder %d is empty", i)
		}
		t.ladders = append(t.ladders, rungs)
	}

	for role, rows := range doc.Progressions {
		for _, row := range rows {
			if strings.TrimSpace(row.NextRole) == "" {
				return nil, fmt.Errorf("progression from %q without next_role", role)
			}
			if row.SuccessProbability < 0 || row.SuccessProbability > 1 {
				return nil, fmt.Errorf("progression %q -> %q: success_probability must be within [0,1]", role, row.NextRole)
			}
			t.progressions[key(role)] = append(t.progressions[key(role)], career.Progression{
				NextRole:           strings.TrimSpace(row.NextRole),
				SkillGaps:          slices.Clone(row.SkillGaps),
				TypicalDuration:    months(row.TypicalMonths),
				SuccessProbability: row.SuccessProbability,
				Recommendations:    slices.Clone(row.Recommendations),
			})
		}
	}

	return t, nil
}

// Load reads a knowledge file.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge file %q: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing knowledge file %q: %w", path, err)
	}

	t, err := New(doc)
	if err != nil {
		return nil, fmt.Errorf("knowledge file %q: %w", path, err)
	}
	return t, nil
}

// Industry returns the industry of a company.
func (t *Tables) Industry(company string) (string, bool) {
	industry, ok := t.industries[key(company)]
	return industry, ok
}

// Ladder returns the rungs leading up to and including title, taken from the
// first ladder that contains it. Unknown titles yield nil.
func (t *Tables) Ladder(title string) []string {
	want := key(title)
	for _, ladder := range t.ladders {
		for i, rung := range ladder {
			if key(rung) == want {
				return slices.Clone(ladder[:i+1])
			}
		}
	}
	return nil
}

// Progressions returns the progression rows for a role title.
func (t *Tables) Progressions(roleTitle string) []career.Progression {
	return slices.Clone(t.progressions[key(roleTitle)])
}

func key(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func months(m float64) time.Duration {
	if m <= 0 {
		return 0
	}
	return time.Duration(m * float64(30*24*time.Hour))
}

package knowledge

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleDocument = `
industries:
  Acme Corp: fintech
  Globex: healthcare
ladders:
  - [Junior Software Engineer, Software Engineer, Senior Software Engineer, Staff Engineer]
  - [Analyst, Senior Analyst]
progressions:
  Software Engineer:
    - next_role: Senior Software Engineer
      success_probability: 0.7
      typical_months: 24
      skill_gaps: [system design]
      recommendations: [Lead a cross-team project]
    - next_role: Engineering Manager
      success_probability: 0.4
      typical_months: 36
`

func loadSample(t *testing.T) *Tables {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knowledge.yaml")
	if err := os.WriteFile(path, []byte(sampleDocument), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	tables, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tables
}

func TestIndustry(t *testing.T) {
	tables := loadSample(t)

	if got, ok := tables.Industry("  acme   corp "); !ok || got != "fintech" {
		t.Fatalf("expected fintech, got %q (%v)", got, ok)
	}
	if _, ok := tables.Industry("Initech"); ok {
		t.Fatalf("expected unknown company to miss")
	}
}

func TestLadder(t *testing.T) {
	t.Parallel()
	tables := loadSample(t)

	tests := []struct {
		title  string
		expect []string
	}{
		{title: "senior software engineer", expect: []string{"Junior Software Engineer", "Software Engineer", "Senior Software Engineer"}},
		{title: "Junior Software Engineer", expect: []string{"Junior Software Engineer"}},
		{title: "Senior Analyst", expect: []string{"Analyst", "Senior Analyst"}},
		{title: "Astronaut", expect: nil},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()
			got := tables.Ladder(tt.title)
			if len(got) != len(tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
			for i := range got {
				if got[i] != tt.expect[i] {
					t.Fatalf("expected %v, got %v", tt.expect, got)
				}
			}
		})
	}
}

func TestProgressions(t *testing.T) {
	tables := loadSample(t)

	rows := tables.Progressions("software engineer")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].NextRole != "Senior Software Engineer" || rows[0].SuccessProbability != 0.7 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[0].TypicalDuration != 24*30*24*time.Hour {
		t.Fatalf("unexpected duration: %v", rows[0].TypicalDuration)
	}

	rows[0].NextRole = "mutated"
	if tables.Progressions("Software Engineer")[0].NextRole == "mutated" {
		t.Fatalf("tables must not expose internal state")
	}
}

func TestNewRejectsInvalidRows(t *testing.T) {
	_, err := New(Document{Progressions: map[string][]ProgressionDefinition{
		"SE": {{NextRole: "Senior SE", SuccessProbability: 1.2}},
	}})
	if err == nil {
		t.Fatalf("expected error for probability above 1")
	}

	_, err = New(Document{Ladders: [][]string{{" "}}})
	if err == nil {
		t.Fatalf("expected error for empty ladder")
	}
}

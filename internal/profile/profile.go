// Package profile holds the normalized candidate and job records consumed by
// the graph builder and the community detector.
package profile

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Skill is a skill the candidate holds with a proficiency level.
type Skill struct {
	Name  string  `mapstructure:"name" json:"name" validate:"required"`
	Level float64 `mapstructure:"level" json:"level" validate:"gte=0"`
}

// Experience is a single work experience entry.
type Experience struct {
	Company string  `mapstructure:"company" json:"company" validate:"required"`
	Title   string  `mapstructure:"title" json:"title" validate:"required"`
	Years   float64 `mapstructure:"years" json:"years,omitempty" validate:"gte=0"`
	// Industry is optional; when empty the industry lookup is consulted.
	Industry string `mapstructure:"industry" json:"industry,omitempty"`
}

// Education is a single education entry.
type Education struct {
	Degree      string `mapstructure:"degree" json:"degree" validate:"required"`
	Field       string `mapstructure:"field" json:"field,omitempty"`
	Institution string `mapstructure:"institution" json:"institution,omitempty"`
}

// Candidate is a normalized candidate record.
type Candidate struct {
	ID         string       `mapstructure:"id" json:"id" validate:"required"`
	Name       string       `mapstructure:"name" json:"name,omitempty"`
	Seniority  string       `mapstructure:"seniority" json:"seniority,omitempty"`
	Skills     []Skill      `mapstructure:"skills" json:"skills,omitempty" validate:"dive"`
	Experience []Experience `mapstructure:"experience" json:"experience,omitempty" validate:"dive"`
	Education  []Education  `mapstructure:"education" json:"education,omitempty" validate:"dive"`
}

// Validate checks the required fields of the record.
func (c *Candidate) Validate() error {
	if c == nil {
		return fmt.Errorf("candidate record is nil")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("candidate %q: %w", c.ID, err)
	}
	return nil
}

// TotalYears sums the years of all experience entries.
func (c *Candidate) TotalYears() float64 {
	var total float64
	for _, e := range c.Experience {
		total += e.Years
	}
	return total
}

// RequiredSkill is a skill requirement of a job.
type RequiredSkill struct {
	Name       string  `mapstructure:"name" json:"name" validate:"required"`
	Importance float64 `mapstructure:"importance" json:"importance,omitempty" validate:"gte=0"`
	MinLevel   float64 `mapstructure:"min_level" json:"min_level,omitempty" validate:"gte=0"`
}

// EffectiveImportance returns the importance, 1 when unset.
func (r RequiredSkill) EffectiveImportance() float64 {
	if r.Importance <= 0 {
		return 1
	}
	return r.Importance
}

// EffectiveMinLevel returns the minimum level, 1 when unset.
func (r RequiredSkill) EffectiveMinLevel() float64 {
	if r.MinLevel <= 0 {
		return 1
	}
	return r.MinLevel
}

// Job is a normalized job opening record.
type Job struct {
	ID        string  `mapstructure:"id" json:"id" validate:"required"`
	Title     string  `mapstructure:"title" json:"title" validate:"required"`
	Company   string  `mapstructure:"company" json:"company,omitempty"`
	Industry  string  `mapstructure:"industry" json:"industry,omitempty"`
	Seniority string  `mapstructure:"seniority" json:"seniority,omitempty"`
	MinYears  float64 `mapstructure:"min_years" json:"min_years,omitempty" validate:"gte=0"`

	RequiredSkills []RequiredSkill `mapstructure:"required_skills" json:"required_skills,omitempty" validate:"dive"`
}

// Validate checks the required fields of the record.
func (j *Job) Validate() error {
	if j == nil {
		return fmt.Errorf("job record is nil")
	}
	if err := validate.Struct(j); err != nil {
		return fmt.Errorf("job %q: %w", j.ID, err)
	}
	return nil
}

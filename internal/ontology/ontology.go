// Package ontology is the read-only registry of skill names, synonyms and
// pairwise similarities. It supplies the only fuzzy comparison used by the
// graph builder and the match scorer.
package ontology

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// ErrInvalidSimilarity is returned for relation weights outside [0,1].
var ErrInvalidSimilarity = errors.New("similarity must be within [0,1]")

// Related is a skill semantically close to another one.
type Related struct {
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

// Ontology is the narrow contract consumed by the builder and the scorer.
// Unknown skills are never an error, they have similarity 0.
type Ontology interface {
	Similarity(a, b string) float64
	RelatedSkills(skill string) []Related
}

// Normalizer is implemented by ontologies that map synonyms to canonical names.
type Normalizer interface {
	Canonical(name string) string
}

// Canonical returns the canonical form of a skill name, using o's synonym
// table when it has one.
func Canonical(o Ontology, name string) string {
	if n, ok := o.(Normalizer); ok {
		return n.Canonical(name)
	}
	return normalize(name)
}

func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Definition is the on-disk shape of an ontology table.
type Definition struct {
	Skills    []SkillDefinition    `yaml:"skills" json:"skills"`
	Relations []RelationDefinition `yaml:"relations" json:"relations"`
}

// SkillDefinition registers a canonical skill and its synonyms.
type SkillDefinition struct {
	Name     string   `yaml:"name" json:"name"`
	Synonyms []string `yaml:"synonyms,omitempty" json:"synonyms,omitempty"`
}

// RelationDefinition registers a symmetric similarity between two skills.
type RelationDefinition struct {
	A          string  `yaml:"a" json:"a"`
	B          string  `yaml:"b" json:"b"`
	Similarity float64 `yaml:"similarity" json:"similarity"`
}

// Store is an immutable Ontology. Build a new Store to change it.
type Store struct {
	skills    map[string]struct{}
	synonyms  map[string]string
	relations map[string]map[string]float64
	logger    *zap.Logger
}

var _ Ontology = (*Store)(nil)

// NewStore builds a store from a definition.
func NewStore(def Definition, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		skills:    make(map[string]struct{}),
		synonyms:  make(map[string]string),
		relations: make(map[string]map[string]float64),
		logger:    logger,
	}

	for _, skill := range def.Skills {
		name := normalize(skill.Name)
		if name == "" {
			return nil, fmt.Errorf("skill definition without a name")
		}
		s.skills[name] = struct{}{}
		for _, synonym := range skill.Synonyms {
			if syn := normalize(synonym); syn != "" && syn != name {
				s.synonyms[syn] = name
			}
		}
	}

	for _, rel := range def.Relations {
		if err := s.relate(rel.A, rel.B, rel.Similarity); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) relate(a, b string, similarity float64) error {
	if similarity < 0 || similarity > 1 {
		return fmt.Errorf("%s <-> %s = %v: %w", a, b, similarity, ErrInvalidSimilarity)
	}

	ca, cb := s.Canonical(a), s.Canonical(b)
	if ca == "" || cb == "" {
		return fmt.Errorf("relation with an empty skill name")
	}
	if ca == cb {
		return nil
	}

	s.skills[ca] = struct{}{}
	s.skills[cb] = struct{}{}
	s.set(ca, cb, similarity)
	s.set(cb, ca, similarity)
	return nil
}

func (s *Store) set(a, b string, similarity float64) {
	if s.relations[a] == nil {
		s.relations[a] = make(map[string]float64)
	}
	s.relations[a][b] = similarity
}

// Canonical lower-cases, collapses whitespace and resolves synonyms.
func (s *Store) Canonical(name string) string {
	n := normalize(name)
	if canonical, ok := s.synonyms[n]; ok {
		return canonical
	}
	return n
}

// Known reports whether the skill is registered.
func (s *Store) Known(name string) bool {
	_, ok := s.skills[s.Canonical(name)]
	return ok
}

// Skills returns the registered canonical skill names, sorted.
func (s *Store) Skills() []string {
	names := make([]string, 0, len(s.skills))
	for name := range s.skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Similarity returns the registered similarity of two skills, 1 for the same
// canonical skill and 0 when no relationship is registered.
func (s *Store) Similarity(a, b string) float64 {
	ca, cb := s.Canonical(a), s.Canonical(b)
	if ca == "" || cb == "" {
		return 0
	}
	if ca == cb {
		return 1
	}

	if sim, ok := s.relations[ca][cb]; ok {
		return sim
	}

	if !s.Known(ca) || !s.Known(cb) {
		s.logger.Debug("unknown ontology entry",
			zap.String("skill_a", ca),
			zap.String("skill_b", cb),
		)
	}
	return 0
}

// RelatedSkills lists skills related to skill, by similarity descending then name.
func (s *Store) RelatedSkills(skill string) []Related {
	c := s.Canonical(skill)
	rels, ok := s.relations[c]
	if !ok {
		if !s.Known(c) {
			s.logger.Debug("unknown ontology entry", zap.String("skill", c))
		}
		return nil
	}

	related := make([]Related, 0, len(rels))
	for name, sim := range rels {
		related = append(related, Related{Name: name, Similarity: sim})
	}
	sort.Slice(related, func(i, j int) bool {
		if related[i].Similarity != related[j].Similarity {
			return related[i].Similarity > related[j].Similarity
		}
		return related[i].Name < related[j].Name
	})
	return related
}

package graph

import (
	"fmt"
	"maps"
	"strings"
)

// Kind is the type of a vertex.
type Kind string

const (
	KindCandidate   Kind = "candidate"
	KindJob         Kind = "job"
	KindSkill       Kind = "skill"
	KindCompany     Kind = "company"
	KindRole        Kind = "role"
	KindIndustry    Kind = "industry"
	KindDegree      Kind = "degree"
	KindInstitution Kind = "institution"
)

// Relation is the type of a directed arc.
type Relation string

const (
	RelationHasSkill      Relation = "has_skill"
	RelationRelatedTo     Relation = "related_to"
	RelationWorkedAt      Relation = "worked_at"
	RelationPerformedRole Relation = "performed_role"
	RelationBelongsTo     Relation = "belongs_to"
	RelationHasDegree     Relation = "has_degree"
	RelationObtainedFrom  Relation = "obtained_from"
	RelationRequiresSkill Relation = "requires_skill"
	RelationInIndustry    Relation = "in_industry"
	RelationPromotesTo    Relation = "promotes_to"
)

// Attribute keys shared by the builder and the consumers of its graphs.
const (
	AttrName       = "name"
	AttrTitle      = "title"
	AttrLevel      = "level"
	AttrMinLevel   = "min_level"
	AttrImportance = "importance"
	AttrSimilarity = "similarity"
	AttrYears      = "years"
	AttrMinYears   = "min_years"
	AttrSeniority  = "seniority"
	AttrCompany    = "company"
	AttrField      = "field"
	AttrRung       = "rung"
	// AttrInferred marks nodes and edges that come from a lookup or the
	// ontology rather than from the record itself.
	AttrInferred = "inferred"
)

// Attributes carries kind-specific data of a node or an edge.
type Attributes map[string]any

// Float returns a numeric attribute as float64.
func (a Attributes) Float(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// String returns a string attribute or an empty string.
func (a Attributes) String(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// Bool returns a boolean attribute or false.
func (a Attributes) Bool(key string) bool {
	v, _ := a[key].(bool)
	return v
}

func (a Attributes) clone() Attributes {
	if a == nil {
		return Attributes{}
	}
	return maps.Clone(a)
}

// Node is a typed vertex. ID is unique within a graph.
type Node struct {
	ID         string     `json:"id"`
	Kind       Kind       `json:"kind"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// Edge is a typed directed arc between two nodes of the same graph.
type Edge struct {
	From       string     `json:"from"`
	To         string     `json:"to"`
	Relation   Relation   `json:"relation"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// Key identifies an edge by its endpoints and relation.
func (e Edge) Key() string {
	return e.From + "|" + string(e.Relation) + "|" + e.To
}

// Inferred reports whether the edge was produced from a lookup or the ontology.
func (e Edge) Inferred() bool {
	return e.Attributes.Bool(AttrInferred)
}

// Other returns the endpoint of e opposite to id.
func (e Edge) Other(id string) string {
	if e.From == id {
		return e.To
	}
	return e.From
}

// NodeID builds the deterministic identifier of a node from its kind and name.
func NodeID(kind Kind, name string) string {
	return fmt.Sprintf("%s:%s", kind, strings.TrimSpace(name))
}

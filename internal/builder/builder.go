// Package builder turns normalized candidate and job records into typed
// attributed subgraphs. Building is a pure function of the record and the
// injected read-only lookups: the same record always yields the same graph.
package builder

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentgraph/internal/graph"
	"github.com/spigell/talentgraph/internal/ontology"
)

const defaultRelatedLimit = 5

// IndustryLookup resolves the industry of a company.
type IndustryLookup interface {
	Industry(company string) (string, bool)
}

// RoleHierarchy expands a job title into the ordered rungs leading to it.
type RoleHierarchy interface {
	Ladder(title string) []string
}

// IndustryFunc adapts a function to IndustryLookup.
type IndustryFunc func(company string) (string, bool)

func (f IndustryFunc) Industry(company string) (string, bool) { return f(company) }

// LadderFunc adapts a function to RoleHierarchy.
type LadderFunc func(title string) []string

func (f LadderFunc) Ladder(title string) []string { return f(title) }

// Builder constructs candidate and job graphs.
type Builder struct {
	ontology     ontology.Ontology
	industries   IndustryLookup
	roles        RoleHierarchy
	relatedLimit int
	logger       *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithIndustryLookup sets the company -> industry lookup.
func WithIndustryLookup(l IndustryLookup) Option {
	return func(b *Builder) { b.industries = l }
}

// WithRoleHierarchy sets the title -> ladder lookup.
func WithRoleHierarchy(r RoleHierarchy) Option {
	return func(b *Builder) { b.roles = r }
}

// WithRelatedLimit caps how many ontology neighbours are attached per skill.
// Zero or less keeps the default of 5.
func WithRelatedLimit(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.relatedLimit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a builder around an ontology. A nil ontology relates nothing.
func New(o ontology.Ontology, opts ...Option) *Builder {
	if o == nil {
		o = emptyOntology{}
	}

	b := &Builder{
		ontology:     o,
		industries:   IndustryFunc(func(string) (string, bool) { return "", false }),
		roles:        LadderFunc(func(string) []string { return nil }),
		relatedLimit: defaultRelatedLimit,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.industries == nil {
		b.industries = IndustryFunc(func(string) (string, bool) { return "", false })
	}
	if b.roles == nil {
		b.roles = LadderFunc(func(string) []string { return nil })
	}
	return b
}

type emptyOntology struct{}

func (emptyOntology) Similarity(a, b string) float64 {
	if ontology.Canonical(emptyOntology{}, a) == ontology.Canonical(emptyOntology{}, b) {
		return 1
	}
	return 0
}

func (emptyOntology) RelatedSkills(string) []ontology.Related { return nil }

// key normalizes names used inside node ids.
func key(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func (b *Builder) industryNode(g *graph.Graph, name string, inferred bool) (string, error) {
	id := graph.NodeID(graph.KindIndustry, key(name))
	attrs := graph.Attributes{graph.AttrName: strings.TrimSpace(name)}
	if inferred {
		attrs[graph.AttrInferred] = true
	}
	return id, g.AddNode(graph.Node{ID: id, Kind: graph.KindIndustry, Attributes: attrs})
}

// resolveIndustry prefers the industry stated on the record over the lookup.
func (b *Builder) resolveIndustry(explicit, company string) (string, bool, bool) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, false, true
	}
	if strings.TrimSpace(company) == "" {
		return "", false, false
	}
	industry, ok := b.industries.Industry(company)
	if !ok || strings.TrimSpace(industry) == "" {
		b.logger.Debug("industry lookup returned nothing", zap.String("company", company))
		return "", false, false
	}
	return industry, true, true
}

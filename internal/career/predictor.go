// Package career predicts likely next roles of a candidate from the roles the
// candidate performed and an external progression table.
package career

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talentgraph/internal/graph"
	"github.com/spigell/talentgraph/internal/logger"
	"github.com/spigell/talentgraph/internal/ontology"
)

// MaxPaths is the upper bound of paths returned for one candidate.
const MaxPaths = 5

// CareerPath is a predicted next step.
type CareerPath struct {
	CurrentRole        string        `json:"current_role"`
	NextRole           string        `json:"next_role"`
	RequiredSkills     []string      `json:"required_skills"`
	EstimatedTime      time.Duration `json:"estimated_time"`
	Probability        float64       `json:"probability"`
	RecommendedActions []string      `json:"recommended_actions,omitempty"`
}

// Predictor ranks next roles for candidate graphs.
type Predictor struct {
	table    ProgressionTable
	ontology ontology.Ontology
	limit    int
	logger   *zap.Logger
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithLimit lowers the number of returned paths. Values outside 1..MaxPaths keep MaxPaths.
func WithLimit(n int) Option {
	return func(p *Predictor) {
		if n > 0 && n < MaxPaths {
			p.limit = n
		}
	}
}

// WithOntology resolves skill gap synonyms against the candidate's skills.
func WithOntology(o ontology.Ontology) Option {
	return func(p *Predictor) { p.ontology = o }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Predictor) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPredictor creates a predictor over a progression table. A nil table predicts nothing.
func NewPredictor(table ProgressionTable, opts ...Option) *Predictor {
	if table == nil {
		table = StaticTable{}
	}
	p := &Predictor{table: table, limit: MaxPaths, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PredictPaths returns up to the configured number of paths sorted by
// probability descending, then shorter estimated time. Each next role
// appears once with its most probable entry.
func (p *Predictor) PredictPaths(g *graph.Graph) ([]CareerPath, error) {
	if g == nil {
		return nil, &graph.IntegrityError{Op: "predict paths", Reason: "graph is nil"}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	root, ok := g.First(graph.KindCandidate)
	if !ok {
		return nil, &graph.IntegrityError{Op: "predict paths", Reason: "candidate graph has no candidate node"}
	}

	performed := map[string]bool{}
	var roles []string
	for _, e := range g.Out(root.ID, graph.RelationPerformedRole) {
		n, _ := g.Node(e.To)
		title := n.Attributes.String(graph.AttrTitle)
		if title == "" || performed[p.key(title)] {
			continue
		}
		performed[p.key(title)] = true
		roles = append(roles, title)
	}

	held := map[string]bool{}
	for _, e := range g.Out(root.ID, graph.RelationHasSkill) {
		n, _ := g.Node(e.To)
		held[p.skill(n.Attributes.String(graph.AttrName))] = true
	}

	best := map[string]CareerPath{}
	for _, role := range roles {
		rows := p.table.Progressions(role)
		p.logger.Debug("progressions looked up",
			zap.String(logger.FieldCandidate, root.ID),
			zap.String(logger.FieldRole, role),
			zap.Int("rows", len(rows)),
		)

		for _, row := range rows {
			next := strings.TrimSpace(row.NextRole)
			k := p.key(next)
			if k == "" || performed[k] {
				continue
			}

			path := CareerPath{
				CurrentRole:        role,
				NextRole:           next,
				RequiredSkills:     p.gaps(row.SkillGaps, held),
				EstimatedTime:      row.TypicalDuration,
				Probability:        min(max(row.SuccessProbability, 0), 1),
				RecommendedActions: append([]string(nil), row.Recommendations...),
			}
			if current, ok := best[k]; !ok || better(path, current) {
				best[k] = path
			}
		}
	}

	paths := make([]CareerPath, 0, len(best))
	for _, path := range best {
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool {
		if paths[i].Probability != paths[j].Probability {
			return paths[i].Probability > paths[j].Probability
		}
		if paths[i].EstimatedTime != paths[j].EstimatedTime {
			return paths[i].EstimatedTime < paths[j].EstimatedTime
		}
		return paths[i].NextRole < paths[j].NextRole
	})

	if len(paths) > p.limit {
		paths = paths[:p.limit]
	}
	return paths, nil
}

func better(a, b CareerPath) bool {
	if a.Probability != b.Probability {
		return a.Probability > b.Probability
	}
	return a.EstimatedTime < b.EstimatedTime
}

func (p *Predictor) gaps(gaps []string, held map[string]bool) []string {
	required := []string{}
	seen := map[string]bool{}
	for _, gap := range gaps {
		k := p.skill(gap)
		if k == "" || held[k] || seen[k] {
			continue
		}
		seen[k] = true
		required = append(required, strings.TrimSpace(gap))
	}
	return required
}

func (p *Predictor) skill(name string) string {
	if p.ontology != nil {
		return ontology.Canonical(p.ontology, name)
	}
	return p.key(name)
}

func (p *Predictor) key(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

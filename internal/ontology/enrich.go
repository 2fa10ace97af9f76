package ontology

import (
	"context"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/spigell/talentgraph/internal/ai"
	"github.com/spigell/talentgraph/internal/vector"
)

// DefaultEnrichThreshold is the embedding cosine above which two skills are
// related when no explicit threshold is configured.
const DefaultEnrichThreshold = 0.82

// Enrich returns a new Store with relations added between registered skills
// whose embedding cosine similarity reaches threshold. Registered relations
// are kept as they are. The input store is not modified.
func Enrich(ctx context.Context, s *Store, embedder ai.Embedder, threshold float64) (*Store, error) {
	if embedder == nil {
		return s, nil
	}
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultEnrichThreshold
	}

	skills := s.Skills()
	if len(skills) < 2 {
		return s, nil
	}

	vectors, err := embedder.EmbedTexts(ctx, skills)
	if err != nil {
		return nil, fmt.Errorf("embedding ontology skills: %w", err)
	}
	if len(vectors) != len(skills) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d skills", len(vectors), len(skills))
	}

	enriched := s.clone()
	added := 0
	for i := range skills {
		for j := i + 1; j < len(skills); j++ {
			if _, ok := s.relations[skills[i]][skills[j]]; ok {
				continue
			}
			sim := vector.Cosine(vectors[i], vectors[j])
			if sim < threshold {
				continue
			}
			enriched.set(skills[i], skills[j], sim)
			enriched.set(skills[j], skills[i], sim)
			added++
		}
	}

	s.logger.Info("ontology enriched with embeddings",
		zap.Int("skills", len(skills)),
		zap.Int("relations_added", added),
		zap.Float64("threshold", threshold),
	)

	return enriched, nil
}

func (s *Store) clone() *Store {
	c := &Store{
		skills:    maps.Clone(s.skills),
		synonyms:  maps.Clone(s.synonyms),
		relations: make(map[string]map[string]float64, len(s.relations)),
		logger:    s.logger,
	}
	for k, v := range s.relations {
		c.relations[k] = maps.Clone(v)
	}
	return c
}

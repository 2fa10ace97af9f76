package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	return v
}

func TestDecodeConfigDefaults(t *testing.T) {
	config, err := decodeConfig(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, "ontology.yaml", config.Ontology.File)
	assert.Equal(t, 5, config.Ontology.RelatedLimit)
	assert.False(t, config.Ontology.Embeddings.Enabled)
	assert.Equal(t, 0.82, config.Ontology.Embeddings.Threshold)
	assert.Equal(t, "knowledge.yaml", config.Knowledge.File)
	assert.Equal(t, 8, config.Scoring.Workers)
	assert.Equal(t, 0.7, config.Community.Threshold)
	assert.Equal(t, 100, config.Community.MaxIterations)
	assert.Equal(t, "@every 24h", config.Community.Schedule)
	assert.Equal(t, 5, config.Career.Limit)
	assert.Equal(t, "text-embedding-004", config.Gemini.Model)
	assert.Equal(t, 3, config.Gemini.MaxRetries)
	assert.Empty(t, config.Cache.Dir)
}

func TestDecodeConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talentgraph.yaml")
	data := []byte(`
ontology:
  file: /etc/talentgraph/ontology.yaml
  embeddings:
    enabled: true
scoring:
  minimum-score: 0.4
community:
  threshold: 0.75
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("TALENTGRAPH_SCORING_WORKERS", "2")
	t.Setenv("TALENTGRAPH_COMMUNITY_METRICS_ADDR", ":9100")

	v := newTestViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	config, err := decodeConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "/etc/talentgraph/ontology.yaml", config.Ontology.File)
	assert.True(t, config.Ontology.Embeddings.Enabled)
	assert.Equal(t, 0.82, config.Ontology.Embeddings.Threshold)
	assert.Equal(t, 0.4, config.Scoring.MinimumScore)
	assert.Equal(t, 2, config.Scoring.Workers)
	assert.Equal(t, 0.75, config.Community.Threshold)
	assert.Equal(t, ":9100", config.Community.MetricsAddr)
}

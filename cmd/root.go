package cmd

import (
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "talentgraph"
	envPrefix = "TALENTGRAPH"
)

type Config struct {
	Ontology  *OntologyConfig  `mapstructure:"ontology"`
	Knowledge *KnowledgeConfig `mapstructure:"knowledge"`
	Scoring   *ScoringConfig   `mapstructure:"scoring"`
	Community *CommunityConfig `mapstructure:"community"`
	Career    *CareerConfig    `mapstructure:"career"`
	Gemini    *GeminiConfig    `mapstructure:"gemini"`
	Cache     *CacheConfig     `mapstructure:"cache"`
}

type OntologyConfig struct {
	File         string            `mapstructure:"file"`
	RelatedLimit int               `mapstructure:"related-limit"`
	Embeddings   *EmbeddingsConfig `mapstructure:"embeddings"`
}

type EmbeddingsConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Threshold float64 `mapstructure:"threshold"`
}

type KnowledgeConfig struct {
	File string `mapstructure:"file"`
}

type ScoringConfig struct {
	MinimumScore float64 `mapstructure:"minimum-score"`
	Workers      int     `mapstructure:"workers"`
}

type CommunityConfig struct {
	Threshold     float64 `mapstructure:"threshold"`
	MaxIterations int     `mapstructure:"max-iterations"`
	Workers       int     `mapstructure:"workers"`
	Schedule      string  `mapstructure:"schedule"`
	MetricsAddr   string  `mapstructure:"metrics-addr"`
}

type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

type CareerConfig struct {
	Limit int `mapstructure:"limit"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

// envKeyReplacer maps nested keys such as scoring.minimum-score to
// TALENTGRAPH_SCORING_MINIMUM_SCORE.
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talentgraph matches candidates to jobs over a skills knowledge graph",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talentgraph.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file instead of stdout")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ontology.file", "ontology.yaml")
	v.SetDefault("ontology.related-limit", 5)
	v.SetDefault("ontology.embeddings.enabled", false)
	v.SetDefault("ontology.embeddings.threshold", 0.82)
	v.SetDefault("knowledge.file", "knowledge.yaml")
	v.SetDefault("scoring.minimum-score", 0.0)
	v.SetDefault("scoring.workers", 8)
	v.SetDefault("community.threshold", 0.7)
	v.SetDefault("community.max-iterations", 100)
	v.SetDefault("community.workers", 1)
	v.SetDefault("community.schedule", "@every 24h")
	v.SetDefault("community.metrics-addr", "")
	v.SetDefault("career.limit", 5)
	v.SetDefault("gemini.api-key-file", "")
	v.SetDefault("gemini.model", "text-embedding-004")
	v.SetDefault("gemini.max-retries", 3)
	v.SetDefault("cache.dir", "")
}

func initConfig() {
	// The version command works without a config.
	if versionCmd.CalledAs() != "" {
		return
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Defaults are enough to run without a config file in the working directory.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	err := v.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

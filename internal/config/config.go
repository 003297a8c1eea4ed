// Package config loads cocosearch.yaml and environment overrides into a
// typed configuration tree, resolving each value per the precedence rule
// in spec.md §6: CLI flag > environment variable > project config file >
// built-in default.
package config

// Config is the complete, resolved cocosearch configuration.
type Config struct {
	IndexName string          `yaml:"indexName" mapstructure:"indexName"`
	Indexing  IndexingConfig  `yaml:"indexing" mapstructure:"indexing"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Embedding EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`
}

// IndexingConfig controls file discovery and chunking during ingestion.
type IndexingConfig struct {
	IncludePatterns  []string `yaml:"includePatterns" mapstructure:"includePatterns"`
	ExcludePatterns  []string `yaml:"excludePatterns" mapstructure:"excludePatterns"`
	Languages        []string `yaml:"languages" mapstructure:"languages"`
	ChunkSize        int      `yaml:"chunkSize" mapstructure:"chunkSize"`
	ChunkOverlap     int      `yaml:"chunkOverlap" mapstructure:"chunkOverlap"`
	RespectGitignore bool     `yaml:"respectGitignore" mapstructure:"respectGitignore"`
}

// SearchConfig controls default search behaviour.
type SearchConfig struct {
	ResultLimit int     `yaml:"resultLimit" mapstructure:"resultLimit"`
	MinScore    float64 `yaml:"minScore" mapstructure:"minScore"`
}

// EmbeddingConfig controls the embedding model used for an index.
type EmbeddingConfig struct {
	Model      string `yaml:"model" mapstructure:"model"`
	Dimensions int    `yaml:"dimensions" mapstructure:"dimensions"`
}

// DefaultExcludes are applied by ingest discovery alongside .gitignore
// patterns and IndexingConfig.ExcludePatterns; they are not copied into
// that field, per spec.md §4.7.
var DefaultExcludes = []string{
	"node_modules/**",
	"vendor/**",
	".git/**",
	".hg/**",
	".svn/**",
	"dist/**",
	"build/**",
	"target/**",
	"__pycache__/**",
	"*.pyc",
	".cocosearch/**",
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Indexing: IndexingConfig{
			IncludePatterns:  []string{"**/*"},
			ExcludePatterns:  nil,
			Languages:        nil,
			ChunkSize:        1000,
			ChunkOverlap:     300,
			RespectGitignore: true,
		},
		Search: SearchConfig{
			ResultLimit: 10,
			MinScore:    0.0,
		},
		Embedding: EmbeddingConfig{
			Model:      "nomic-embed-text",
			Dimensions: 768,
		},
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source identifies where a resolved configuration value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// Loader loads cocosearch.yaml plus environment and flag overrides into a
// Config, honouring the precedence order documented in spec.md §6:
// CLI flag > environment variable > project config file > built-in default.
type Loader struct {
	rootDir string
	flags   map[string]string // pre-resolved CLI flag overrides, dotted-key -> raw value
}

// NewLoader creates a Loader rooted at the given project directory.
func NewLoader(rootDir string) *Loader {
	return &Loader{rootDir: rootDir}
}

// WithFlags attaches CLI flag overrides (highest precedence). Keys use the
// same dotted form as the YAML schema, e.g. "indexing.chunkSize".
func (l *Loader) WithFlags(flags map[string]string) *Loader {
	l.flags = flags
	return l
}

// Resolution records, for diagnostics, where each dotted config key's
// final value was sourced from.
type Resolution struct {
	Config  *Config
	Sources map[string]Source
}

// Load resolves the configuration with full precedence and strict
// unknown-field rejection.
func (l *Loader) Load() (*Resolution, error) {
	cfg := Default()
	sources := map[string]Source{}
	setAllDefaults(sources)

	configPath := filepath.Join(l.rootDir, "cocosearch.yaml")
	if raw, err := os.ReadFile(configPath); err == nil {
		expanded, err := Substitute(raw)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := decodeStrict(expanded, cfg); err != nil {
			return nil, err
		}
		markFileSources(raw, sources)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: failed to read %s: %w", configPath, err)
	}

	if err := applyEnv(cfg, sources); err != nil {
		return nil, err
	}

	if err := applyFlags(cfg, l.flags, sources); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &Resolution{Config: cfg, Sources: sources}, nil
}

// decodeStrict decodes YAML bytes into cfg, rejecting unknown fields with a
// "did you mean" suggestion per spec.md §6.
func decodeStrict(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(strings.NewReader(string(raw)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if msg := extractUnknownField(err.Error()); msg != "" {
			if suggestion := Suggest(msg); suggestion != "" {
				return fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownConfigField, msg, suggestion)
			}
			return fmt.Errorf("%w: %q", ErrUnknownConfigField, msg)
		}
		return fmt.Errorf("config: failed to parse cocosearch.yaml: %w", err)
	}
	return nil
}

var unknownFieldPattern = regexp.MustCompile(`field (\S+) not found`)

func extractUnknownField(errMsg string) string {
	m := unknownFieldPattern.FindStringSubmatch(errMsg)
	if len(m) == 2 {
		return strings.Trim(m[1], "\"")
	}
	return ""
}

func markFileSources(raw []byte, sources map[string]Source) {
	var generic map[string]any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return
	}
	markKeysRecursive("", generic, sources)
}

func markKeysRecursive(prefix string, node map[string]any, sources map[string]Source) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		sources[key] = SourceFile
		if child, ok := v.(map[string]any); ok {
			markKeysRecursive(key, child, sources)
		}
	}
}

func setAllDefaults(sources map[string]Source) {
	for _, k := range knownFields {
		sources[k] = SourceDefault
	}
}

// applyEnv applies COCOSEARCH_<SECTION>_<KEY> environment overrides.
func applyEnv(cfg *Config, sources map[string]Source) error {
	type binding struct {
		env  string
		key  string
		dest func(string) error
	}

	bindings := []binding{
		{"COCOSEARCH_INDEXNAME", "indexName", func(v string) error { cfg.IndexName = v; return nil }},
		{"COCOSEARCH_INDEXING_CHUNKSIZE", "indexing.chunkSize", intSetter(&cfg.Indexing.ChunkSize)},
		{"COCOSEARCH_INDEXING_CHUNKOVERLAP", "indexing.chunkOverlap", intSetter(&cfg.Indexing.ChunkOverlap)},
		{"COCOSEARCH_INDEXING_RESPECTGITIGNORE", "indexing.respectGitignore", boolSetter(&cfg.Indexing.RespectGitignore)},
		{"COCOSEARCH_SEARCH_RESULTLIMIT", "search.resultLimit", intSetter(&cfg.Search.ResultLimit)},
		{"COCOSEARCH_SEARCH_MINSCORE", "search.minScore", floatSetter(&cfg.Search.MinScore)},
		{"COCOSEARCH_EMBEDDING_MODEL", "embedding.model", func(v string) error { cfg.Embedding.Model = v; return nil }},
		{"COCOSEARCH_EMBEDDING_DIMENSIONS", "embedding.dimensions", intSetter(&cfg.Embedding.Dimensions)},
	}

	for _, b := range bindings {
		if v, ok := os.LookupEnv(b.env); ok {
			if err := b.dest(v); err != nil {
				return fmt.Errorf("config: invalid value for %s: %w", b.env, err)
			}
			sources[b.key] = SourceEnv
		}
	}
	return nil
}

// applyFlags applies CLI-flag overrides, the highest-precedence source.
func applyFlags(cfg *Config, flags map[string]string, sources map[string]Source) error {
	if len(flags) == 0 {
		return nil
	}

	setters := map[string]func(string) error{
		"indexName":               func(v string) error { cfg.IndexName = v; return nil },
		"indexing.chunkSize":      intSetter(&cfg.Indexing.ChunkSize),
		"indexing.chunkOverlap":   intSetter(&cfg.Indexing.ChunkOverlap),
		"indexing.respectGitignore": boolSetter(&cfg.Indexing.RespectGitignore),
		"search.resultLimit":      intSetter(&cfg.Search.ResultLimit),
		"search.minScore":         floatSetter(&cfg.Search.MinScore),
		"embedding.model":         func(v string) error { cfg.Embedding.Model = v; return nil },
	}

	for key, value := range flags {
		setter, ok := setters[key]
		if !ok {
			continue
		}
		if err := setter(value); err != nil {
			return fmt.Errorf("config: invalid flag value for %s: %w", key, err)
		}
		sources[key] = SourceFlag
	}
	return nil
}

func intSetter(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func floatSetter(dst *float64) func(string) error {
	return func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst = f
		return nil
	}
}

func boolSetter(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

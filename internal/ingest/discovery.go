package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/gobwas/glob"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/cocosearch/cocosearch/internal/config"
)

// discovery walks the source tree and returns the relative paths that
// survive include/exclude filtering, per spec.md §4.7 "Pattern
// resolution": DEFAULT_EXCLUDES, then .gitignore (if respected), then
// user excludes, then include patterns applied last.
type discovery struct {
	rootDir  string
	includes []glob.Glob
	excludes []glob.Glob
	ignore   *gitignore.GitIgnore
}

func newDiscovery(rootDir string, cfg config.IndexingConfig) (*discovery, error) {
	d := &discovery{rootDir: rootDir}

	excludePatterns := append([]string{}, config.DefaultExcludes...)
	excludePatterns = append(excludePatterns, cfg.ExcludePatterns...)
	for _, pattern := range excludePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("ingest: invalid exclude pattern %q: %w", pattern, err)
		}
		d.excludes = append(d.excludes, g)
	}

	includePatterns := cfg.IncludePatterns
	if len(includePatterns) == 0 {
		includePatterns = []string{"**/*"}
	}
	for _, pattern := range includePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("ingest: invalid include pattern %q: %w", pattern, err)
		}
		d.includes = append(d.includes, g)
	}

	if cfg.RespectGitignore {
		gitignorePath := filepath.Join(rootDir, ".gitignore")
		if _, err := os.Stat(gitignorePath); err == nil {
			gi, err := gitignore.CompileIgnoreFile(gitignorePath)
			if err != nil {
				return nil, fmt.Errorf("ingest: failed to parse .gitignore: %w", err)
			}
			d.ignore = gi
		}
	}

	return d, nil
}

// walk returns every regular file under rootDir (relative, slash-separated
// paths) that is not excluded and matches at least one include pattern.
func (d *discovery) walk() ([]string, error) {
	var files []string
	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.shouldSkip(rel) {
			return nil
		}
		if d.matchesAny(d.includes, rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ingest: failed to walk %s: %w", d.rootDir, err)
	}
	return files, nil
}

func (d *discovery) shouldSkip(rel string) bool {
	if d.matchesAny(d.excludes, rel) {
		return true
	}
	if d.matchesAny(d.excludes, rel+"/**") {
		return true
	}
	if d.ignore != nil && d.ignore.MatchesPath(rel) {
		return true
	}
	return false
}

func (d *discovery) matchesAny(patterns []glob.Glob, path string) bool {
	for _, p := range patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}

// isUTF8 reports whether b decodes cleanly as UTF-8 text, per spec.md
// §4.7 step 2 ("read the file as UTF-8; on decode failure, record parse
// status error and skip").
func isUTF8(b []byte) bool {
	return utf8.Valid(b)
}

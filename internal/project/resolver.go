// Package project turns a working directory into a canonical project
// path and a named index, per spec.md §4.8. Canonicalisation and root
// discovery are pure filesystem operations; registering the resolved
// name against a path (with collision detection) goes through storage.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cocosearch/cocosearch/internal/config"
)

// staleAfter is the age past which an index is flagged stale, per
// spec.md §4.8 "an index is flagged stale when its last-updated
// timestamp is older than seven days".
const staleAfter = 7 * 24 * time.Hour

// RootOptions controls project root discovery, mirroring the priority
// order of spec.md §4.8:
//  1. an MCP "Roots" capability workspace root, if supplied
//  2. --project-from-cwd: walk upward from Dir for the nearest ".git"
//  3. an environment override, then Dir itself
type RootOptions struct {
	// McpRoot is the workspace root an MCP client supplied, if any.
	McpRoot string
	// ProjectFromCwd requests the upward .git search.
	ProjectFromCwd bool
	// EnvRoot is the value of the project-root environment override, if set.
	EnvRoot string
	// Dir is the caller's working directory, used as the search start
	// point and final fallback.
	Dir string
}

// Resolved is a project's canonical identity: its real (symlink-free)
// path, the resolved index name, and whether a ".git" directory was the
// marker that found its root (index-name resolution step 2 needs this).
type Resolved struct {
	CanonicalPath string
	IndexName     string
	FoundByGit    bool
}

// ResolveRoot picks a project root per RootOptions' priority order and
// canonicalises it by resolving symlinks, per spec.md §4.8
// "Canonicalisation ... prevents the same project (entered via different
// symlinks) from producing two indexes".
func ResolveRoot(opts RootOptions) (root string, foundByGit bool, err error) {
	switch {
	case opts.McpRoot != "":
		root = opts.McpRoot
	case opts.ProjectFromCwd:
		root, err = findGitRoot(opts.Dir)
		if err != nil {
			return "", false, err
		}
		_, statErr := os.Stat(filepath.Join(root, ".git"))
		foundByGit = statErr == nil
	case opts.EnvRoot != "":
		root = opts.EnvRoot
	default:
		root = opts.Dir
	}

	canonical, err := canonicalise(root)
	if err != nil {
		return "", false, err
	}
	return canonical, foundByGit, nil
}

// canonicalise resolves root to an absolute path with symlinks evaluated.
func canonicalise(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("project: failed to resolve absolute path for %q: %w", root, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("project: failed to resolve symlinks for %q: %w", abs, err)
	}
	return real, nil
}

// findGitRoot walks upward from dir for the nearest directory containing
// a ".git" entry, per spec.md §4.8 step 2.
func findGitRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("project: failed to resolve absolute path for %q: %w", dir, err)
	}

	cur := abs
	for {
		if _, err := os.Stat(filepath.Join(cur, ".git")); err == nil {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs, nil
		}
		cur = parent
	}
}

// ResolveIndexName derives an index name for canonicalRoot, per spec.md
// §4.8's 3-step priority:
//  1. cocosearch.yaml's indexName, if set
//  2. the repo directory basename, if root was found via .git
//  3. the directory basename
func ResolveIndexName(canonicalRoot string, foundByGit bool) (string, error) {
	res, err := config.NewLoader(canonicalRoot).Load()
	if err == nil && res.Config.IndexName != "" {
		return sanitiseIndexName(res.Config.IndexName), nil
	}

	_ = foundByGit // both remaining steps use the same basename
	return sanitiseIndexName(filepath.Base(canonicalRoot)), nil
}

// sanitiseIndexName lowercases a candidate name and replaces any
// character outside [a-z0-9_] with an underscore, so the result is
// always a valid storage.ValidateIndexName table-name prefix.
func sanitiseIndexName(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" {
		return "project"
	}
	if out[0] < 'a' || out[0] > 'z' {
		out = "p_" + out
	}
	return out
}

// IsStale reports whether lastUpdatedAt is old enough to flag the index
// stale, per spec.md §4.8.
func IsStale(lastUpdatedAt time.Time) bool {
	return time.Since(lastUpdatedAt) > staleAfter
}

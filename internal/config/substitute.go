package config

import (
	"fmt"
	"os"
	"regexp"
)

// varPattern matches ${VAR} and ${VAR:-default} references.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// Substitute expands ${VAR} and ${VAR:-default} references in raw YAML
// bytes using the process environment, before the document is parsed.
// An unresolved reference with no default is an error, per spec.md §6.
func Substitute(raw []byte) ([]byte, error) {
	var firstErr error

	out := varPattern.ReplaceAllFunc(raw, func(match []byte) []byte {
		groups := varPattern.FindSubmatch(match)
		name := string(groups[1])
		hasDefault := len(groups[2]) > 0
		def := string(groups[3])

		if val, ok := os.LookupEnv(name); ok {
			return []byte(val)
		}
		if hasDefault {
			return []byte(def)
		}
		if firstErr == nil {
			firstErr = fmt.Errorf("unresolved environment variable %q in cocosearch.yaml", name)
		}
		return match
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

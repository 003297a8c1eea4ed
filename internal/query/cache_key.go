package query

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/cocosearch/cocosearch/internal/storage"
)

// Hash returns the exact-cache key for a normalised query string, per
// spec.md §4.10 step 1 ("Hash the normalised query + filter set").
func Hash(normalizedQuery string) string {
	sum := sha256.Sum256([]byte(normalizedQuery))
	return hex.EncodeToString(sum[:])
}

// FilterSignature canonicalises a filter set plus the options that
// change a result's shape into a stable string, so equivalent requests
// always land in the same cache bucket regardless of call-site field
// ordering.
func FilterSignature(f storage.SearchFilters, limit int, minScore float64, useHybrid, smartContext bool) string {
	symbolTypes := append([]string(nil), f.SymbolTypes...)
	sort.Strings(symbolTypes)

	parts := []string{
		"lang=" + f.Language,
		"types=" + strings.Join(symbolTypes, ","),
		"name=" + f.SymbolName,
		fmt.Sprintf("limit=%d", limit),
		fmt.Sprintf("min=%.4f", minScore),
		fmt.Sprintf("hybrid=%t", useHybrid),
		fmt.Sprintf("ctx=%t", smartContext),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

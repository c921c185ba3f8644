package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// PublicScope is the scope of responses fetched without a bearer token.
const PublicScope = "public"

// CacheKey identifies a cached PokeForge response.
type CacheKey struct {
	// Path is the API path (e.g., "/Cards/base1-4")
	Path string

	// Query are the encoded query parameters (e.g., {"page": "2"})
	Query url.Values

	// Scope separates responses fetched with different credentials.
	// Use ScopeForToken to derive it.
	Scope string
}

// ScopeForToken derives a cache scope from a bearer token without storing
// the token itself. An empty token maps to PublicScope.
func ScopeForToken(token string) string {
	if token == "" {
		return PublicScope
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// String generates a deterministic cache key string.
// Format: pokeforge:path:query1=val1:query2=val2:scope=public
//
// Example:
//
//	pokeforge:Cards:page=1:pageSize=20:scope=public
func (k CacheKey) String() string {
	parts := []string{"pokeforge"}

	path := strings.Trim(k.Path, "/")
	if path != "" {
		parts = append(parts, path)
	}

	if len(k.Query) > 0 {
		keys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			values := append([]string(nil), k.Query[key]...)
			sort.Strings(values)
			parts = append(parts, fmt.Sprintf("%s=%s", key, strings.Join(values, ",")))
		}
	}

	scope := k.Scope
	if scope == "" {
		scope = PublicScope
	}
	parts = append(parts, "scope="+scope)

	return strings.Join(parts, ":")
}

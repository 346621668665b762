// Package cache holds the LRU cache of encoded component registry exports
// shared by the HTTP and MCP servers.
package cache

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/clinical-ui-manifest/internal/components"
)

// DefaultSize is used when a non-positive size is configured.
const DefaultSize = 32

// SchemaCache holds JSON-encoded registry exports. A registry is immutable
// once built, so entries never go stale.
type SchemaCache struct {
	entries *lru.Cache[string, []byte]
}

// NewSchemaCache creates a cache holding at most size entries.
func NewSchemaCache(size int) (*SchemaCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema cache: %w", err)
	}
	return &SchemaCache{entries: entries}, nil
}

// GetOrEncode returns the cached bytes for key, encoding build() as JSON on
// a miss. The second return value reports a cache hit.
func (c *SchemaCache) GetOrEncode(key string, build func() any) ([]byte, bool, error) {
	if data, ok := c.entries.Get(key); ok {
		return data, true, nil
	}

	data, err := json.Marshal(build())
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode %s: %w", key, err)
	}
	c.entries.Add(key, data)
	return data, false, nil
}

// Len returns the number of cached entries.
func (c *SchemaCache) Len() int {
	return c.entries.Len()
}

// Purge drops every entry.
func (c *SchemaCache) Purge() {
	c.entries.Purge()
}

// CategoryKey builds an order-independent cache key for a category filter.
func CategoryKey(prefix string, categories []components.Category) string {
	if len(categories) == 0 {
		return prefix + ":*"
	}
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	sort.Strings(names)
	return prefix + ":" + strings.Join(names, ",")
}

// ParseCategories parses a comma separated category filter. Blank input
// means no filter.
func ParseCategories(raw string) ([]components.Category, error) {
	var out []components.Category
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		category := components.Category(part)
		if !category.IsValid() {
			return nil, fmt.Errorf("unknown category: %s", part)
		}
		out = append(out, category)
	}
	return out, nil
}

package translation

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of masked texts whose translations are kept.
const DefaultCacheSize = 500

// TranslationCache keeps backend translations keyed by the exact masked
// text, evicting the least recently used entry when full. It is safe for
// concurrent use.
type TranslationCache struct {
	entries  *lru.Cache[string, string]
	capacity int
}

// NewTranslationCache creates a cache holding up to capacity entries.
// A non-positive capacity falls back to DefaultCacheSize.
func NewTranslationCache(capacity int) (*TranslationCache, error) {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}

	entries, err := lru.New[string, string](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create translation cache: %w", err)
	}

	return &TranslationCache{
		entries:  entries,
		capacity: capacity,
	}, nil
}

// Add stores a translation, evicting the least recently used entry if needed.
// It reports whether an eviction happened.
func (tc *TranslationCache) Add(text, translation string) bool {
	return tc.entries.Add(text, translation)
}

// Get retrieves a translation and marks it as recently used.
func (tc *TranslationCache) Get(text string) (string, bool) {
	return tc.entries.Get(text)
}

// Contains reports whether text is cached without touching its recency.
func (tc *TranslationCache) Contains(text string) bool {
	return tc.entries.Contains(text)
}

// Len returns the number of cached translations.
func (tc *TranslationCache) Len() int {
	return tc.entries.Len()
}

// Capacity returns the maximum number of cached translations.
func (tc *TranslationCache) Capacity() int {
	return tc.capacity
}

// Purge removes all entries.
func (tc *TranslationCache) Purge() {
	tc.entries.Purge()
}

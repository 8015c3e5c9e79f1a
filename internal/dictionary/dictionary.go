package dictionary

import (
	"regexp"
	"sort"
)

// Term is one dictionary entry together with its whole-word matcher.
type Term struct {
	English string
	Tamil   string
	Pattern *regexp.Regexp
}

// Dictionary maps normalized English medical terms to Tamil terms.
// It is immutable after construction.
type Dictionary struct {
	entries map[string]string
	terms   []Term
}

// New builds a dictionary from already normalized entries.
func New(entries map[string]string) *Dictionary {
	copied := make(map[string]string, len(entries))
	for k, v := range entries {
		if k == "" {
			continue
		}
		copied[k] = v
	}

	terms := make([]Term, 0, len(copied))
	for english, tamil := range copied {
		terms = append(terms, Term{
			English: english,
			Tamil:   tamil,
			Pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(english) + `\b`),
		})
	}

	// Longest first so multi-word phrases are masked before their sub-terms.
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i].English) != len(terms[j].English) {
			return len(terms[i].English) > len(terms[j].English)
		}
		return terms[i].English < terms[j].English
	})

	return &Dictionary{entries: copied, terms: terms}
}

// Empty returns a dictionary without entries.
func Empty() *Dictionary {
	return New(nil)
}

// Lookup returns the Tamil term for a normalized English term.
func (d *Dictionary) Lookup(english string) (string, bool) {
	tamil, ok := d.entries[english]
	return tamil, ok
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Terms returns the entries ordered by English term length, longest first.
// The returned slice must not be modified.
func (d *Dictionary) Terms() []Term {
	return d.terms
}

// Entries returns a copy of the underlying mapping.
func (d *Dictionary) Entries() map[string]string {
	result := make(map[string]string, len(d.entries))
	for k, v := range d.entries {
		result[k] = v
	}
	return result
}

// Package dictionary loads the English to Tamil medical term dictionary
// from a CSV resource. Loading never aborts on a bad row: malformed rows are
// skipped and counted. The Loader caches the parsed dictionary for a bounded
// time window and degrades to an empty dictionary when the resource is missing.
package dictionary

package dictionary

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTTL is how long a loaded dictionary is reused before the file is read again.
const DefaultTTL = time.Hour

// ErrorReporter receives user-visible load problems.
type ErrorReporter func(err error)

// Loader loads the dictionary file on demand and caches the result for ttl.
type Loader struct {
	path   string
	ttl    time.Duration
	report ErrorReporter
	now    func() time.Time

	mu       sync.Mutex
	dict     *Dictionary
	loadedAt time.Time
}

// NewLoader creates a loader for the CSV file at path. A non-positive ttl
// falls back to DefaultTTL.
func NewLoader(path string, ttl time.Duration) *Loader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Loader{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}
}

// SetErrorReporter sets the callback used to surface critical load errors to the user.
func (l *Loader) SetErrorReporter(report ErrorReporter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.report = report
}

// Path returns the dictionary file path.
func (l *Loader) Path() string {
	return l.path
}

// Dictionary returns the cached dictionary, reloading it when the TTL has
// expired. It never fails: when the file is missing or unusable the error is
// reported and an empty dictionary is returned so translation keeps working.
func (l *Loader) Dictionary() *Dictionary {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.dict != nil && now.Sub(l.loadedAt) < l.ttl {
		return l.dict
	}

	dict, stats, err := LoadFile(l.path)
	if err != nil {
		log.Error().
			Err(err).
			Str("path", l.path).
			Bool("missing", errors.Is(err, ErrResourceMissing)).
			Msg("CRITICAL: medical dictionary unavailable, using backend translation only")
		if l.report != nil {
			l.report(err)
		}
		dict = Empty()
	} else {
		log.Info().
			Str("path", l.path).
			Int("entries", stats.Entries).
			Int("skipped", stats.Skipped).
			Int("duplicates", stats.Duplicates).
			Msg("Loaded medical dictionary")
	}

	l.dict = dict
	l.loadedAt = now
	return dict
}

// Invalidate drops the cached dictionary so the next call reloads the file.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dict = nil
	l.loadedAt = time.Time{}
}

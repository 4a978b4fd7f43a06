package search

import (
	"sync"
	"time"

	"github.com/poiesic/docfind/core"
)

// DefaultSessionTTL is how long a cached session context stays usable
// for follow-up questions.
const DefaultSessionTTL = 5 * time.Minute

// SessionEntry is the retained context of the most recent search.
type SessionEntry struct {
	Question   string
	Answer     string
	Context    string
	Pages      []int
	Candidates []core.SearchCandidate
	Timestamp  time.Time
}

// SessionCache is a single-slot store of the last search's context.
// Follow-up questions reuse it instead of re-running the full search.
// It is last-writer-wins under concurrency; a stale hit serves slightly
// outdated context and is corrected by the next full search.
type SessionCache struct {
	mu       sync.Mutex
	entry    *SessionEntry
	ttl      time.Duration
	disabled bool
}

// NewSessionCache creates a session cache. A non-positive ttl selects
// DefaultSessionTTL.
func NewSessionCache(ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionCache{ttl: ttl}
}

// Put replaces the cached entry, stamping it with the current time.
func (c *SessionCache) Put(entry SessionEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled {
		return
	}
	entry.Timestamp = time.Now()
	c.entry = &entry
}

// RecordAnswer attaches the generated answer to the cached entry,
// completing the stored question/answer pair. A missing or mismatched
// entry is left untouched.
func (c *SessionCache) RecordAnswer(question, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled || c.entry == nil || c.entry.Question != question {
		return
	}
	c.entry.Answer = answer
}

// Get returns the cached entry if it is younger than the TTL.
func (c *SessionCache) Get() (*SessionEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled || c.entry == nil {
		return nil, false
	}
	if time.Since(c.entry.Timestamp) > c.ttl {
		c.entry = nil
		return nil, false
	}
	return c.entry, true
}

// Invalidate drops the cached entry.
func (c *SessionCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
}

// Disable turns the cache off: Get always misses and Put is a no-op.
func (c *SessionCache) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = true
	c.entry = nil
}

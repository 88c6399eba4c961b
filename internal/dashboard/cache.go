package dashboard

import (
	"sync"
	"time"

	"github.com/Afrawles/teamdash/internal/report"
)

// reportCache memoizes derived reports keyed by snapshot fingerprint plus the
// selected buckets. Entries expire after a TTL standing in for "the upstream
// feed does not change faster than this".
type reportCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	rep     report.Report
	expires time.Time
}

func newReportCache(ttl time.Duration) *reportCache {
	return &reportCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *reportCache) get(key string) (report.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return report.Report{}, false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, key)
		return report.Report{}, false
	}
	return entry.rep, true
}

func (c *reportCache) put(key string, rep report.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{rep: rep, expires: c.now().Add(c.ttl)}
}

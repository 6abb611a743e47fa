// Package addrquota implements the per-IP connect throttle described in §5:
// a map of golang.org/x/time/rate token buckets keyed by remote address,
// guarded by a short-held mutex so the accept loop never blocks on another
// goroutine's quota check.
package addrquota

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Quota tracks one token bucket per source IP.
type Quota struct {
	mu       sync.Mutex
	buckets  map[string]*entry
	limit    rate.Limit
	burst    int
	maxIdle  time.Duration
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New returns a Quota allowing `burst` connections immediately per address
// and refilling at `eventsPerSecond` thereafter. maxIdle bounds how long an
// address's bucket is kept once it stops being seen, to cap memory use
// against a wide scan.
func New(eventsPerSecond float64, burst int, maxIdle time.Duration) *Quota {
	return &Quota{
		buckets: make(map[string]*entry),
		limit:   rate.Limit(eventsPerSecond),
		burst:   burst,
		maxIdle: maxIdle,
	}
}

// Allow reports whether a new connection from addr is within quota, taking
// one token from that address's bucket if so. The address is normalized to
// its host (port stripped) since ephemeral client ports would otherwise
// defeat the per-IP limit.
func (q *Quota) Allow(addr net.Addr) bool {
	host := hostOf(addr)

	q.mu.Lock()
	e, ok := q.buckets[host]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(q.limit, q.burst)}
		q.buckets[host] = e
	}
	e.lastSeen = time.Now()
	q.mu.Unlock()

	return e.limiter.Allow()
}

// Prune drops buckets for addresses not seen within maxIdle. Callers run it
// periodically (e.g. from a ticker alongside the accept loop) so the map
// doesn't grow unbounded under churn.
func (q *Quota) Prune() {
	cutoff := time.Now().Add(-q.maxIdle)
	q.mu.Lock()
	defer q.mu.Unlock()
	for host, e := range q.buckets {
		if e.lastSeen.Before(cutoff) {
			delete(q.buckets, host)
		}
	}
}

func hostOf(addr net.Addr) string {
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}

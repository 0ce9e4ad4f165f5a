package stepup

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const pruneInterval = time.Minute

// Throttle limits how often a session may request a new code.
// A nil *Throttle allows everything.
type Throttle struct {
	mu        sync.Mutex
	limiters  map[string]*throttleEntry
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastPrune time.Time
	now       func() time.Time
}

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewThrottle allows burst requests per key at once and one more every
// interval after that. It returns nil when interval or burst is not positive.
func NewThrottle(every time.Duration, burst int) *Throttle {
	if every <= 0 || burst <= 0 {
		return nil
	}
	return &Throttle{
		limiters: make(map[string]*throttleEntry),
		limit:    rate.Every(every),
		burst:    burst,
		// A limiter idle this long is full again and can be recreated.
		idle: every * time.Duration(burst),
		now:  time.Now,
	}
}

// Allow consumes a token for key. When none is available it reports how long
// until the next one.
func (t *Throttle) Allow(key string) (bool, time.Duration) {
	if t == nil {
		return true, 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.prune(now)

	e, ok := t.limiters[key]
	if !ok {
		e = &throttleEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.limiters[key] = e
	}
	e.lastSeen = now

	r := e.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Len returns the number of tracked keys.
func (t *Throttle) Len() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.limiters)
}

func (t *Throttle) prune(now time.Time) {
	if now.Sub(t.lastPrune) < pruneInterval {
		return
	}
	t.lastPrune = now
	for key, e := range t.limiters {
		if now.Sub(e.lastSeen) > t.idle {
			delete(t.limiters, key)
		}
	}
}

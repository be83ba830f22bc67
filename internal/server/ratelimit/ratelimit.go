// Package ratelimit provides per-client token bucket rate limiting for the API.
package ratelimit

import (
	"sync"
	"time"
)

// idleBucketTTL is how long a bucket may go unused before the janitor drops it.
const idleBucketTTL = time.Hour

// bucket is a token bucket refilled continuously at rate tokens per second.
type bucket struct {
	capacity float64
	rate     float64
	tokens   float64
	updated  time.Time
	lastSeen time.Time
}

func newBucket(rule EndpointConfig, now time.Time) *bucket {
	capacity := rule.Burst
	if capacity <= 0 {
		capacity = rule.Limit
	}
	return &bucket{
		capacity: float64(capacity),
		rate:     float64(rule.Limit) / rule.Window.Seconds(),
		tokens:   float64(capacity),
		updated:  now,
		lastSeen: now,
	}
}

// take refills the bucket up to now and consumes one token if available.
// It reports the tokens left and when the bucket will be full again.
func (b *bucket) take(now time.Time) (ok bool, remaining int, full time.Time) {
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.updated).Seconds()*b.rate)
	b.updated = now
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		ok = true
	}

	full = now
	if missing := b.capacity - b.tokens; missing > 0 {
		full = now.Add(time.Duration(missing / b.rate * float64(time.Second)))
	}
	return ok, int(b.tokens), full
}

// Info describes the outcome of a rate limit check. Limit is zero when the
// request was not subject to a limit.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter tracks one bucket per client and matched rule.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter. A nil config uses NewConfig(true, nil, nil).
// When enabled, a janitor goroutine drops idle buckets until Stop is called,
// so every limiter must be stopped.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = NewConfig(true, nil, nil)
	}

	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go l.janitor(config.CleanupInterval)
	} else {
		close(l.done)
	}
	return l
}

// Allow reports whether clientID may make a method request to path.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	switch {
	case !l.config.Enabled, l.config.Whitelist[clientID]:
		return true, Info{Allowed: true}
	case l.config.Blacklist[clientID]:
		return false, Info{}
	}

	rule, scope := l.resolve(path, method)
	if rule.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	key := clientID + "|" + scope

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(rule, now)
		l.buckets[key] = b
	}
	allowed, remaining, full := b.take(now)
	l.mu.Unlock()

	info := Info{
		Allowed:   allowed,
		Limit:     rule.Limit,
		Remaining: remaining,
		ResetTime: full,
	}
	if !allowed {
		info.RetryAfter = max(full.Sub(now), 0)
	}
	return allowed, info
}

// resolve picks the rule for a request and the scope its bucket is keyed by.
// Requests sharing a rule share a bucket, so /api/jobs/{id} is counted once
// across identifiers.
func (l *Limiter) resolve(path, method string) (EndpointConfig, string) {
	if rule := MatchEndpoint(path, method, l.config.EndpointConfigs); rule != nil {
		return *rule, "rule:" + rule.Method + " " + rule.Path
	}
	return EndpointConfig{
		Limit:  l.config.DefaultLimit,
		Window: l.config.DefaultWindow,
		Burst:  l.config.DefaultLimit,
	}, "default"
}

func (l *Limiter) janitor(interval time.Duration) {
	defer close(l.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets idle for longer than idleBucketTTL.
func (l *Limiter) sweep() {
	cutoff := l.now().Add(-idleBucketTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop ends the janitor goroutine and waits for it to exit. It is safe to
// call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.done
}

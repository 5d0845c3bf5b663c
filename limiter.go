package pubfront

import (
	"sync"
	"time"
)

// AttemptLimiter rate-limits failed attempts per key (usually a client IP).
// It guards admin login and preview token checks.
type AttemptLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	stop     chan struct{}
	once     sync.Once
}

// NewAttemptLimiter creates an AttemptLimiter that allows max attempts per
// window and starts a background sweep of expired entries.
func NewAttemptLimiter(max int, window time.Duration) *AttemptLimiter {
	l := &AttemptLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Stop ends the background sweep.
func (l *AttemptLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *AttemptLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
		}
		cutoff := time.Now().Add(-l.window)
		l.mu.Lock()
		for key := range l.attempts {
			if kept := l.prune(key, cutoff); len(kept) == 0 {
				delete(l.attempts, key)
			}
		}
		l.mu.Unlock()
	}
}

// prune drops attempts older than cutoff. Callers hold l.mu.
func (l *AttemptLimiter) prune(key string, cutoff time.Time) []time.Time {
	hits := l.attempts[key]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.attempts[key] = kept
	return kept
}

// Check returns true if key has not exceeded the limit. It does not record
// an attempt.
func (l *AttemptLimiter) Check(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prune(key, time.Now().Add(-l.window))) < l.max
}

// Record registers a failed attempt for key.
func (l *AttemptLimiter) Record(key string) {
	l.mu.Lock()
	l.attempts[key] = append(l.attempts[key], time.Now())
	l.mu.Unlock()
}

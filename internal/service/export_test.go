package service

import "time"

// SetClock replaces the limiter's time source.
func (tb *TokenBucket) SetClock(now func() time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.now = now
}

// Len reports how many keys currently hold a bucket.
func (tb *TokenBucket) Len() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return len(tb.buckets)
}

// EvictIdle exposes evictIdle to tests.
func (tb *TokenBucket) EvictIdle(idle time.Duration) { tb.evictIdle(idle) }

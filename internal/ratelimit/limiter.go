// Package ratelimit implements a keyed fixed-window request counter.
//
// The first call for a key opens a window of the configured length; up to Max calls are
// admitted inside it. Windows are not sliding, so a burst straddling a boundary can admit
// up to 2*Max calls.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// Limiter is safe for concurrent use.
type Limiter struct {
	max     int
	period  time.Duration
	mu      sync.Mutex
	windows map[string]*window
	nowFunc func() time.Time
}

func New(max int, period time.Duration) *Limiter {
	if max <= 0 {
		max = 1
	}
	if period <= 0 {
		period = time.Minute
	}
	return &Limiter{
		max:     max,
		period:  period,
		windows: make(map[string]*window),
		nowFunc: time.Now,
	}
}

func (l *Limiter) Max() int              { return l.max }
func (l *Limiter) Period() time.Duration { return l.period }

// Allow consumes one slot for key, reporting false once the window is exhausted.
func (l *Limiter) Allow(key string) bool {
	ok, _ := l.take(key)
	return ok
}

// take is the atomic check-and-increment; on refusal it returns the wait until reset.
func (l *Limiter) take(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		l.windows[key] = &window{count: 1, resetAt: now.Add(l.period)}
		return true, 0
	}
	if w.count >= l.max {
		return false, w.resetAt.Sub(now)
	}
	w.count++
	return true, 0
}

// Wait blocks until key is admitted or ctx is done.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	for {
		ok, wait := l.take(key)
		if ok {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Remaining reports the slots left for key in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !l.nowFunc().Before(w.resetAt) {
		return l.max
	}
	return l.max - w.count
}

// RetryAfter is the time until key's window resets, zero when key is not limited.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok {
		return 0
	}
	if d := w.resetAt.Sub(l.nowFunc()); d > 0 && w.count >= l.max {
		return d
	}
	return 0
}

// Sweep drops expired windows and returns how many were removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	removed := 0
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// Len is the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

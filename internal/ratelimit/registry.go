package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/phuslu/log"
)

// Well-known limiter names.
const (
	Embed     = "embed"
	Ingestion = "ingestion"
)

// Registry owns the process's named limiters. It is built once at startup and passed down.
type Registry struct {
	mu       sync.RWMutex
	limiters map[string]*Limiter
}

func NewRegistry() *Registry {
	return &Registry{limiters: make(map[string]*Limiter)}
}

// Register creates the named limiter, or returns the existing one unchanged.
func (r *Registry) Register(name string, max int, period time.Duration) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.limiters[name]; ok {
		return l
	}
	l := New(max, period)
	r.limiters[name] = l
	return l
}

// Get returns the named limiter or nil.
func (r *Registry) Get(name string) *Limiter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.limiters[name]
}

// Sweep drops expired windows from every limiter. It returns how many were removed and
// how many keys are still tracked.
func (r *Registry) Sweep() (removed, tracked int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.limiters {
		removed += l.Sweep()
		tracked += l.Len()
	}
	return removed, tracked
}

// Run sweeps every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration, l *log.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, tracked := r.Sweep()
			l.Debug().Int("removed", removed).Int("tracked", tracked).Msg("rate limiter sweep")
		}
	}
}

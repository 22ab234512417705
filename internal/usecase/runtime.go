package usecase

import (
	"github.com/fadilmartias/job-atlas/internal/logger"
	"github.com/fadilmartias/job-atlas/internal/ratelimit"
	"github.com/fadilmartias/job-atlas/internal/service"
	"github.com/phuslu/log"
)

// Runtime holds the process-wide collaborators resolved once at startup: the embedding
// provider, the named rate limiters and the root logger.
type Runtime struct {
	Provider service.EmbeddingProvider
	Limiters *ratelimit.Registry
	Logger   *log.Logger
}

func NewRuntime(provider service.EmbeddingProvider, limiters *ratelimit.Registry, l *log.Logger) *Runtime {
	if limiters == nil {
		limiters = ratelimit.NewRegistry()
	}
	if l == nil {
		l = logger.Discard()
	}
	return &Runtime{Provider: provider, Limiters: limiters, Logger: l}
}

func (rt *Runtime) remote() bool {
	return rt.Provider != nil && rt.Provider.Kind() == service.ProviderRemote
}

package collector

import (
	"github.com/fadilmartias/job-atlas/internal/config"
	"github.com/phuslu/log"
)

// NewAll builds one collector per supported source sharing a client and request pacer.
func NewAll(cfg *config.SourcesConfig, l *log.Logger) ([]Collector, error) {
	client := NewHTTPClient(cfg.RequestTimeout)
	limiter := NewLimiter(cfg.RequestsPerSecond)

	identifiers := map[Source][]string{
		Greenhouse:      cfg.GreenhouseBoards,
		Lever:           cfg.LeverCompanies,
		Ashby:           cfg.AshbyOrgs,
		Recruitee:       cfg.RecruiteeClients,
		SmartRecruiters: cfg.SmartRecruitersCompanies,
	}

	collectors := make([]Collector, 0, len(Sources))
	for _, source := range Sources {
		c, err := New(source, Options{
			Identifiers: identifiers[source],
			Token:       cfg.SmartRecruitersToken,
			Client:      client,
			Limiter:     limiter,
			Logger:      l,
		})
		if err != nil {
			return nil, err
		}
		collectors = append(collectors, c)
	}
	return collectors, nil
}

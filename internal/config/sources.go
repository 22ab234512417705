package config

import (
	"os"
	"sync"
	"time"
)

type SourcesConfig struct {
	GreenhouseBoards         []string
	LeverCompanies           []string
	AshbyOrgs                []string
	RecruiteeClients         []string
	SmartRecruitersCompanies []string
	SmartRecruitersToken     string

	RequestTimeout    time.Duration
	RequestsPerSecond float64
}

var (
	sourcesConfig *SourcesConfig
	sourcesOnce   sync.Once
)

func LoadSourcesConfig() *SourcesConfig {
	sourcesOnce.Do(func() {
		smartRecruiters := splitList(os.Getenv("SMARTRECRUITERS_COMPANIES"))
		if len(smartRecruiters) == 0 {
			smartRecruiters = splitList(os.Getenv("SMARTRECRUITERS_COMPANY"))
		}
		sourcesConfig = &SourcesConfig{
			GreenhouseBoards:         splitList(os.Getenv("GREENHOUSE_BOARDS")),
			LeverCompanies:           splitList(os.Getenv("LEVER_COMPANIES")),
			AshbyOrgs:                splitList(os.Getenv("ASHBY_ORGS")),
			RecruiteeClients:         splitList(os.Getenv("RECRUITEE_CLIENTS")),
			SmartRecruitersCompanies: smartRecruiters,
			SmartRecruitersToken:     os.Getenv("SMARTRECRUITERS_TOKEN"),
			RequestTimeout:           envDuration("COLLECTOR_TIMEOUT", 30*time.Second),
			RequestsPerSecond:        envFloat("COLLECTOR_RPS", 5),
		}
	})
	return sourcesConfig
}

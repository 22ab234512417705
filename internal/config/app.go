package config

import (
	"log"
	"os"
	"sync"
)

type AppConfig struct {
	Name       string
	Env        string
	Port       string
	BaseURL    string
	AdminToken string
	LogLevel   string
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
			log.Printf("Warning: APP_ENV not set, defaulting to %s", env)
		}
		adminToken := os.Getenv("ADMIN_TOKEN")
		if adminToken == "" {
			adminToken = "admin-token-changeme"
			log.Printf("Warning: ADMIN_TOKEN not set, using the insecure default")
		}
		appConfig = &AppConfig{
			Name:       envString("APP_NAME", "job-atlas"),
			Env:        env,
			Port:       envString("APP_PORT", ":3000"),
			BaseURL:    os.Getenv("APP_URL"),
			AdminToken: adminToken,
			LogLevel:   envString("LOG_LEVEL", "info"),
		}
	})
	return appConfig
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

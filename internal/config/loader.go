package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

func Init() (*ServiceConfig, error) {
	cfg := &ServiceConfig{}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("unable to parse service configuration: %w", err)
	}

	if len(ServiceVersion) != 0 {
		cfg.App.ServiceVersion = ServiceVersion
	}

	if len(CommitSHA) != 0 {
		cfg.App.CommitSHA = CommitSHA
	}

	return cfg, nil
}

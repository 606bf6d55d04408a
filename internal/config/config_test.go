package config_test

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/paiban/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Port: 7012},
		Database: config.DatabaseConfig{
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Scheduler: config.SchedulerConfig{
			OptimizationLevel:     2,
			EngineThreads:         4,
			EnginePopulationSize:  12,
			EngineAcceptWorseRate: 0.02,
		},
		Dispatcher: config.DispatcherConfig{MaxDistanceKm: 15},
	}
}

func TestValidateAcceptsDefaultShapedConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateCollectsEveryViolationAtOnce(t *testing.T) {
	cfg := validConfig()
	cfg.App.Port = 0
	cfg.Database.MaxIdleConns = 50
	cfg.Scheduler.OptimizationLevel = 9
	cfg.Scheduler.EngineAcceptWorseRate = 1.5

	err := cfg.Validate()
	require.Error(t, err)

	merr, ok := err.(*multierror.Error)
	require.True(t, ok, "Validate must return a *multierror.Error so callers can inspect every violation")
	assert.Len(t, merr.Errors, 4)
}

func TestValidateRejectsNegativeEngineThreads(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.EngineThreads = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine_threads")
}

func TestIsDevelopmentDefaultsToFalseWhenUnset(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.IsDevelopment())
	cfg.App.Env = "development"
	assert.True(t, cfg.IsDevelopment())
}

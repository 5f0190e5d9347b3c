package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaanhq/dukaan/pkg/config"
)

type testConfig struct {
	Host    string `env:"TEST_CFG_HOST" envDefault:"localhost"`
	Port    int    `env:"TEST_CFG_PORT" envDefault:"8080"`
	Secret  string `env:"TEST_CFG_SECRET"`
	Retries int    `env:"TEST_CFG_RETRIES" envDefault:"3"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, 3, cfg.Retries)
	})

	t.Run("reads environment overrides", func(t *testing.T) {
		t.Setenv("TEST_CFG_HOST", "db.internal")
		t.Setenv("TEST_CFG_PORT", "9090")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "db.internal", cfg.Host)
		assert.Equal(t, 9090, cfg.Port)
	})

	t.Run("rejects nil pointer", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("surfaces parse errors", func(t *testing.T) {
		t.Setenv("TEST_CFG_PORT", "not-a-number")

		var cfg testConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on invalid environment", func(t *testing.T) {
		t.Setenv("TEST_CFG_RETRIES", "nope")

		assert.Panics(t, func() {
			var cfg testConfig
			config.MustLoad(&cfg)
		})
	})
}

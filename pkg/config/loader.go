package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// Load populates the provided configuration struct from environment variables
// based on `env` field tags. The default .env file is loaded once per process
// before the first parse; a missing .env file is not an error.
//
// Example:
//
//	type BillingConfig struct {
//		KeyID     string `env:"RAZORPAY_KEY_ID,required"`
//		KeySecret string `env:"RAZORPAY_KEY_SECRET,required"`
//	}
//
//	var cfg BillingConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		// The .env file is a development convenience only.
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Intended for configuration
// without which the process cannot start.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: failed to load required configuration: %v", err))
	}
}

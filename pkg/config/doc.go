// Package config loads environment-driven configuration structs.
//
// Every package that needs configuration declares its own Config struct with
// `env` and `envDefault` tags and loads it through Load or MustLoad. This keeps
// configuration next to the code it configures and makes deployments a matter
// of setting environment variables.
package config

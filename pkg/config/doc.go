// Package config loads application configuration from environment
// variables into tagged structs.
//
// Configuration structs declare their sources with `env:` and
// `envDefault:` tags:
//
//	type ServerConfig struct {
//		Addr    string        `env:"HTTP_ADDR" envDefault:":8080"`
//		Timeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg ServerConfig
//	config.MustLoad(&cfg)
//
// A .env file in the working directory is loaded once before the first
// parse, which keeps local development setup to a single file.
package config

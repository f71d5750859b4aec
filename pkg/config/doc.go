// Package config loads configuration structs from environment variables.
//
// Fields are bound with github.com/caarlos0/env/v11 struct tags. LoadEnv reads
// .env files through github.com/joho/godotenv first; values already present
// in the environment take precedence. Every configuration type is parsed once
// and cached, so packages can call Load for the same struct independently.
//
//	if err := config.LoadEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	var cfg session.Config
//	config.MustLoad(&cfg)
//
// ResetCache forces the next Load to parse again and is meant for tests.
package config

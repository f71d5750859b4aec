package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cacheMu sync.Mutex
	cache   = make(map[reflect.Type]any)

	envOnce sync.Once
)

// LoadEnv reads the given .env files into the process environment. Variables
// already set win over file values. With no arguments it reads ".env" in the
// working directory once per process; a missing default file is not an error.
//
// Call it at the top of main: Load caches each type on first use.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		envOnce.Do(func() {
			_ = godotenv.Load()
		})
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// Load parses environment variables into v based on its `env` struct tags.
// Each configuration type is parsed once; later calls for the same type
// return the cached copy.
//
//	var cfg session.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	_ = LoadEnv()

	key := reflect.TypeFor[T]()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, fmt.Errorf("%s: %w", key, err))
	}
	cache[key] = parsed
	*v = parsed
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

// ResetCache drops every cached configuration so the next Load parses the
// environment again.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	clear(cache)
}

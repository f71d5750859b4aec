package redis

import "time"

// Config is bound to REDIS_* environment variables.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // redis://:password@host:port/db
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"15s"` // bounds all attempts together
	KeyPrefix      string        `env:"REDIS_SESSION_KEY_PREFIX" envDefault:"session:frame:"`
}

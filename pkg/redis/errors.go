package redis

import "errors"

var (
	ErrInvalidURL  = errors.New("redis: invalid connection url")
	ErrNotReady    = errors.New("redis: server not ready")
	ErrUnhealthy   = errors.New("redis: ping failed")
	ErrStoreFailed = errors.New("redis: session store operation failed")
)

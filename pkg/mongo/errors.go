package mongo

import "errors"

var (
	ErrNotReady    = errors.New("mongo: server not ready")
	ErrUnhealthy   = errors.New("mongo: ping failed")
	ErrStoreFailed = errors.New("mongo: session store operation failed")
)

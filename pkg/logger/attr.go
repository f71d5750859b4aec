package logger

import (
	"log/slog"
	"strconv"
)

// secretPrefixLen is how much of a session id or lookup key reaches the logs.
const secretPrefixLen = 8

// Error logs err under "error". A nil err yields an empty Attr, which slog
// drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errs under "errors", keyed by position.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// SessionID logs the first characters of a session id under "session_id".
// The full id is never written.
func SessionID[T ~string](id T) slog.Attr {
	return redacted("session_id", string(id))
}

// LookupKey logs the first characters of a store lookup key under
// "lookup_key".
func LookupKey(key string) slog.Attr {
	return redacted("lookup_key", key)
}

func StackDepth(depth int) slog.Attr {
	return slog.Int("stack_depth", depth)
}

// Store names the session store backend.
func Store(name string) slog.Attr {
	return slog.String("store", name)
}

func RetryCount(count int) slog.Attr {
	return slog.Int("retry_count", count)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func redacted(key, value string) slog.Attr {
	if value == "" {
		return slog.Attr{}
	}
	if len(value) > secretPrefixLen {
		value = value[:secretPrefixLen] + "…"
	}
	return slog.String(key, value)
}

package session

import "context"

type contextKey struct{}

// WithSession stores s in ctx. Middleware does this for every request.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}

// MustFromContext is FromContext for handlers mounted behind Middleware.
// It panics when no session is present.
func MustFromContext(ctx context.Context) *Session {
	s, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return s
}

// IDFromContext returns the current frame id. An empty session reports
// false.
func IDFromContext(ctx context.Context) (ID, bool) {
	s, ok := FromContext(ctx)
	if !ok || s.IsEmpty() {
		return None, false
	}
	return s.ID(), true
}

package session

import (
	"io"
	"net/http"

	"github.com/felixge/httpsnoop"

	"github.com/dmitrymomot/sessionstack/pkg/logger"
)

// Middleware loads the session before next runs and commits the session
// cookie right before the response headers are written. Changes made to the
// session after the first write are not reflected in the cookie.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sess, err := m.Load(ctx, r)
		if err != nil {
			m.logger.ErrorContext(ctx, "failed to load session", logger.Error(err))
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		committed := false
		commit := func() {
			if committed {
				return
			}
			committed = true
			if err := m.Commit(w, sess); err != nil {
				m.logger.ErrorContext(ctx, "failed to commit session",
					logger.SessionID(sess.ID()),
					logger.Error(err),
				)
			}
		}

		ww := httpsnoop.Wrap(w, httpsnoop.Hooks{
			WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
				return func(code int) {
					commit()
					next(code)
				}
			},
			Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
				return func(b []byte) (int, error) {
					commit()
					return next(b)
				}
			},
			ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
				return func(src io.Reader) (int64, error) {
					commit()
					return next(src)
				}
			},
			Flush: func(next httpsnoop.FlushFunc) httpsnoop.FlushFunc {
				return func() {
					commit()
					next()
				}
			},
		})

		next.ServeHTTP(ww, r.WithContext(WithSession(ctx, sess)))
		commit()
	})
}

// RequireSession rejects requests that reach it without a loaded session.
// It is meant for handlers mounted behind Middleware.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := FromContext(r.Context())
		if !ok || sess.IsEmpty() {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

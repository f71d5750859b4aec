// Package session implements overlapping sessions: a stack of identifiers
// carried by a single cookie, where each frame can be pushed on top of the
// current one and later popped to return to it.
//
// Every frame owns a random 128-bit identifier and its own AES key and IV.
// The cookie holds the identifier encrypted under the frame key and an HMAC
// of the whole stack keyed with the same key:
//
//	base64(aes-cfb(id)) + "--" + base64(hmac(pack(stack)))
//
// Frame records are persisted in a Store under the encrypted identifier, so
// the server finds the key material for a cookie without any plaintext
// identifier on the wire. A cookie is accepted only when both the decrypted
// identifier and the stack HMAC match; a cookie for a frame that has since
// been covered by a push is rejected.
//
// # Usage
//
//	store := session.NewMemoryStore(time.Minute)
//	manager, err := session.New(store,
//	    session.WithExpireAfter(24*time.Hour),
//	    session.WithSecureCookies(true),
//	)
//	if err != nil {
//	    return err
//	}
//
//	r := chi.NewRouter()
//	r.Use(manager.Middleware)
//	r.Post("/impersonate", func(w http.ResponseWriter, r *http.Request) {
//	    sess := session.MustFromContext(r.Context())
//	    if _, err := sess.Push(r.Context()); err != nil {
//	        http.Error(w, err.Error(), http.StatusInternalServerError)
//	    }
//	})
//
// Middleware loads the session before the handler runs and writes the cookie
// right before the response headers go out.
//
// # Storage
//
// MemoryStore ships with the package. Redis, PostgreSQL and MongoDB stores
// live in pkg/redis, pkg/pg and pkg/mongo. SealedStore wraps any Store and
// encrypts key material at rest; WithIVCipherKey additionally wraps every IV
// with AES-ECB.
//
// # Errors
//
// Load never surfaces a rejected cookie: ErrVerificationFailed is logged and
// a fresh stack is started. Store failures and ErrCollisionExhausted are
// returned to the caller.
package session

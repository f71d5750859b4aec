// Package cookie writes and reads HTTP cookies with a shared set of default
// attributes.
//
// A Manager owns attribute plumbing only: path, domain, expiry (Expires and
// Max-Age), Secure, HttpOnly and SameSite. Values are written as given; the
// session package produces values that carry their own HMAC.
//
//	man := cookie.New(cookie.WithDomain("example.com"), cookie.WithSecure(true))
//	now := time.Now()
//	err := man.Set(w, "sid", value, cookie.WithExpiry(now.Add(time.Hour), now))
//
// Defaults are Path "/", HttpOnly and SameSite=Lax. Per-call options override
// them for that call only. Config binds the defaults to COOKIE_* environment
// variables; COOKIE_SAME_SITE takes lax, strict, none or default.
//
// Set rejects names or values that cannot be sent in a header
// (ErrInvalidFormat) and SameSite=None without Secure
// (ErrInsecureSameSiteNone). Get returns ErrCookieNotFound when the request
// has no cookie with that name.
package cookie

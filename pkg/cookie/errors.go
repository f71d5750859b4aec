package cookie

import "errors"

var (
	ErrCookieNotFound       = errors.New("cookie.not_found")
	ErrInvalidFormat        = errors.New("cookie.invalid_format")
	ErrInvalidSameSite      = errors.New("cookie.invalid_same_site")
	ErrInsecureSameSiteNone = errors.New("cookie.same_site_none_requires_secure")
)

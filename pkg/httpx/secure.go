package httpx

import (
	"github.com/unrolled/secure"
)

// SecureHeaders sets the usual hardening headers. In development mode HSTS
// and the host checks are skipped.
func SecureHeaders(isDevelopment bool) Middleware {
	s := secure.New(secure.Options{
		FrameDeny:            true,
		ContentTypeNosniff:   true,
		BrowserXssFilter:     true,
		ReferrerPolicy:       "strict-origin-when-cross-origin",
		STSSeconds:           31536000,
		STSIncludeSubdomains: true,
		SSLProxyHeaders:      map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:        isDevelopment,
	})
	return s.Handler
}

package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/httprate"
	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/unrolled/secure"
)

// MethodOverrideMiddleware lets HTML forms reach PUT and DELETE routes
// through a hidden _method field. It has to wrap the router, since mux only
// runs router middleware after a route matched the original method.
func MethodOverrideMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			override := r.URL.Query().Get("_method")
			if override == "" && strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
				_ = r.ParseForm()
				override = r.PostForm.Get("_method")
			}
			switch strings.ToUpper(override) {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = strings.ToUpper(override)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SecureHeaders sets the browser hardening headers. Inline styles stay
// allowed for the change-list thumbnails.
func SecureHeaders(production bool) func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:",
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})
	return secureMiddleware.Handler
}

// RateLimit caps requests per client IP on expensive endpoints.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)
}

// ServerTiming attaches a Server-Timing header that repositories add metrics to.
func ServerTiming(next http.Handler) http.Handler {
	return servertiming.Middleware(next, nil)
}

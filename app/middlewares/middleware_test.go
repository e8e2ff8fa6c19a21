package middlewares

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/go-catalog-admin/app/utils/timing"
	"github.com/stretchr/testify/assert"
)

func echoMethod() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Method))
	})
}

func TestMethodOverride(t *testing.T) {
	h := MethodOverrideMiddleware(echoMethod())

	form := url.Values{"_method": {"delete"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.MethodDelete, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/?_method=TRACE", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.MethodPost, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/?_method=DELETE", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.MethodGet, rec.Body.String())
}

func TestSecureHeaders(t *testing.T) {
	h := SecureHeaders(false)(echoMethod())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(2, time.Minute)(echoMethod())
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/admin/products/import", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestServerTimingHeader(t *testing.T) {
	h := ServerTiming(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := timing.Start(r.Context(), "db", "changelist")
		m.Stop()
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/products", nil))

	assert.Contains(t, rec.Header().Get("Server-Timing"), "db")
}

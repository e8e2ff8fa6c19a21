package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rakhulsr/go-catalog-admin/app/models/other"
	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashesSurviveRedirect(t *testing.T) {
	store := NewCookieSessionStore(false, securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/products/action", nil)
	require.NoError(t, store.AddFlash(rec, req, FlashSuccess, "2 products were marked as in stock."))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	next := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	flashes := store.Flashes(rec, next)
	assert.Equal(t, []other.Flash{{Level: FlashSuccess, Message: "2 products were marked as in stock."}}, flashes)

	again := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	for _, c := range rec.Result().Cookies() {
		again.AddCookie(c)
	}
	assert.Empty(t, store.Flashes(httptest.NewRecorder(), again))
}

func TestFlashesWithoutCookie(t *testing.T) {
	store := NewCookieSessionStore(false, securecookie.GenerateRandomKey(32))
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	assert.Empty(t, store.Flashes(httptest.NewRecorder(), req))
}

package sessions

import (
	"log"
	"net/http"
	"time"

	"github.com/Rakhulsr/go-catalog-admin/app/models/other"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "catalog-admin-session"

	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "error"
)

var flashLevels = []string{FlashSuccess, FlashWarning, FlashError}

type SessionStore interface {
	AddFlash(w http.ResponseWriter, r *http.Request, level, message string) error
	Flashes(w http.ResponseWriter, r *http.Request) []other.Flash
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		// A cookie signed with rotated keys yields a fresh session.
		log.Printf("Error getting session: %v", err)
	}
	return session
}

func (c *CookieSessionStore) AddFlash(w http.ResponseWriter, r *http.Request, level, message string) error {
	session := c.getSession(r)
	session.AddFlash(message, level)
	return session.Save(r, w)
}

// Flashes pops every pending message, grouped by level.
func (c *CookieSessionStore) Flashes(w http.ResponseWriter, r *http.Request) []other.Flash {
	session := c.getSession(r)
	var out []other.Flash
	for _, level := range flashLevels {
		for _, v := range session.Flashes(level) {
			if msg, ok := v.(string); ok {
				out = append(out, other.Flash{Level: level, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		if err := session.Save(r, w); err != nil {
			log.Printf("Flashes: failed to save session: %v", err)
		}
	}
	return out
}

package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "attendease-session"

// Sessions manages the cookie session: signed-in user id and flash messages.
type Sessions struct {
	store *sessions.CookieStore
}

// NewSessions builds a cookie-backed session manager.
func NewSessions(secret string, secure bool) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

// SignIn records the authenticated user id in the session.
func (s *Sessions) SignIn(w http.ResponseWriter, r *http.Request, userID int64) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Values["user_id"] = userID
	return sess.Save(r, w)
}

// SignOut drops the session.
func (s *Sessions) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, sessionName)
	delete(sess.Values, "user_id")
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// UserID returns the signed-in user id, or 0 when anonymous.
func (s *Sessions) UserID(r *http.Request) int64 {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		return 0
	}
	id, ok := sess.Values["user_id"].(int64)
	if !ok {
		return 0
	}
	return id
}

// Flash queues a one-shot message for the next rendered page.
func (s *Sessions) Flash(w http.ResponseWriter, r *http.Request, msg string) {
	sess, _ := s.store.Get(r, sessionName)
	sess.AddFlash(msg)
	_ = sess.Save(r, w)
}

// Flashes drains queued messages.
func (s *Sessions) Flashes(w http.ResponseWriter, r *http.Request) []string {
	sess, _ := s.store.Get(r, sessionName)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(r, w)
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

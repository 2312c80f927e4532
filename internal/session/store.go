package session

import (
	"net/http"
	"time"

	"github.com/1f349/cache"
	"github.com/google/uuid"
)

const (
	cookieName = "session-id"
	stateTTL   = 15 * time.Minute
	userTTL    = 12 * time.Hour
)

// Store keeps logged in users and pending OAuth states in memory, keyed by
// the session cookie.
type Store struct {
	// Secure marks the session cookie as https only.
	Secure bool

	states *cache.Cache[uuid.UUID, uuid.UUID]
	users  *cache.Cache[uuid.UUID, DiscordUser]
}

func NewStore(secure bool) *Store {
	return &Store{
		Secure: secure,
		states: cache.New[uuid.UUID, uuid.UUID](),
		users:  cache.New[uuid.UUID, DiscordUser](),
	}
}

// ID returns the session id from the request cookie, issuing a new cookie
// when there is none or it cannot be parsed.
func (s *Store) ID(rw http.ResponseWriter, req *http.Request) uuid.UUID {
	cookie, err := req.Cookie(cookieName)
	if err == nil {
		if parse, err := uuid.Parse(cookie.Value); err == nil {
			return parse
		}
	}
	u := uuid.New()
	http.SetCookie(rw, &http.Cookie{
		Name:     cookieName,
		Value:    u.String(),
		Path:     "/",
		Expires:  time.Now().AddDate(0, 3, 0),
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return u
}

// Lookup returns the session for the request without issuing a cookie.
func (s *Store) Lookup(req *http.Request) Session {
	cookie, err := req.Cookie(cookieName)
	if err != nil {
		return Anonymous()
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return Anonymous()
	}
	u, ok := s.users.Get(id)
	if !ok {
		return Anonymous()
	}
	return Authenticated(u)
}

func (s *Store) Login(id uuid.UUID, u DiscordUser) {
	s.users.Set(id, u, time.Now().Add(userTTL))
}

func (s *Store) Logout(rw http.ResponseWriter, req *http.Request) {
	if cookie, err := req.Cookie(cookieName); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			s.users.Delete(id)
		}
	}
	http.SetCookie(rw, &http.Cookie{
		Name:     cookieName,
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	})
}

// NewState records an OAuth state value bound to the session.
func (s *Store) NewState(sessID uuid.UUID) uuid.UUID {
	state := uuid.New()
	s.states.Set(state, sessID, time.Now().Add(stateTTL))
	return state
}

// CheckState consumes an OAuth state value, reporting whether it was issued
// to the same session.
func (s *Store) CheckState(sessID uuid.UUID, state string) bool {
	stateID, err := uuid.Parse(state)
	if err != nil {
		return false
	}
	owner, ok := s.states.Get(stateID)
	if !ok || owner != sessID {
		return false
	}
	s.states.Delete(stateID)
	return true
}

// Package session is the injected app context for authentication state.
// It replaces ambient globals: initialized once at startup by reading the
// session store, written through on every mutation.
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"

	"omniorder/internal/storage"
)

// Session storage keys, matching the web client.
const (
	tokenKey    = "demo_token"
	userKey     = "demo_user"
	tourSeenKey = "omni_demo_tour_seen"
)

// Profile is the signed-in user's display identity.
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"sub"`
}

// Claims is the subset of token claims the UI displays. The token is
// decoded without verification; the backend is the verifier.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Session holds the demo token and profile for the current run.
type Session struct {
	mu      sync.Mutex
	store   *storage.Store
	token   string
	profile *Profile
}

// Load reads any persisted session state from the store.
func Load(store *storage.Store) *Session {
	s := &Session{store: store}
	if _, err := store.Get(tokenKey, &s.token); err != nil {
		log.Printf("session: discarding unreadable token: %v", err)
	}
	var p Profile
	if ok, err := store.Get(userKey, &p); err != nil {
		log.Printf("session: discarding unreadable profile: %v", err)
	} else if ok {
		s.profile = &p
	}
	return s
}

// Token returns the current bearer token, or empty when signed out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Profile returns the stored user profile, or nil.
func (s *Session) Profile() *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// SetDemoSession stores a freshly issued demo token and profile.
func (s *Session) SetDemoSession(token string, p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.profile = &p
	if err := s.store.Set(tokenKey, token); err != nil {
		log.Printf("session: persist token: %v", err)
	}
	if err := s.store.Set(userKey, p); err != nil {
		log.Printf("session: persist profile: %v", err)
	}
}

// Clear signs out: forgets the token and profile.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.profile = nil
	if err := s.store.Remove(tokenKey); err != nil {
		log.Printf("session: clear token: %v", err)
	}
	if err := s.store.Remove(userKey); err != nil {
		log.Printf("session: clear profile: %v", err)
	}
}

// Claims decodes the current token's display claims without verifying the
// signature.
func (s *Session) Claims() (*Claims, error) {
	tok := s.Token()
	if tok == "" {
		return nil, fmt.Errorf("session: no token")
	}
	parsed, _, err := new(jwt.Parser).ParseUnverified(tok, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("session: parse token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("session: unexpected claims type")
	}
	out := &Claims{}
	if sub, ok := claims["sub"].(string); ok {
		out.Subject = sub
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}

// TourSeen reports whether the demo tour overlay was already dismissed
// this session.
func (s *Session) TourSeen() bool {
	var seen bool
	if _, err := s.store.Get(tourSeenKey, &seen); err != nil {
		return false
	}
	return seen
}

// MarkTourSeen records the demo tour as dismissed.
func (s *Session) MarkTourSeen() {
	if err := s.store.Set(tourSeenKey, true); err != nil {
		log.Printf("session: persist tour flag: %v", err)
	}
}

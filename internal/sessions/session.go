// Package sessions stores operator sessions: opaque tokens carried by the
// admin console cookie and by API refresh requests.
package sessions

import "time"

// Session binds an opaque token to an operator until ExpiresAt.
type Session struct {
	Token     string    `json:"token"`
	Sub       string    `json:"sub"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether s is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

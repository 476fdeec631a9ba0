package session

import (
	"net/http"
	"time"
)

const (
	// CookieName is the name of the persisted bearer token cookie
	CookieName = "auth_token"
	// DefaultMaxAge is how long a persisted token stays valid
	DefaultMaxAge = 24 * time.Hour
)

// Cookie is the persisted record of the bearer token together with the
// attributes a browser would enforce on it.
type Cookie struct {
	Name      string        `json:"name"`
	Value     string        `json:"value"`
	Expires   time.Time     `json:"expires"`
	Secure    bool          `json:"secure"`
	SameSite  http.SameSite `json:"same_site"`
	CreatedAt time.Time     `json:"created_at"`
}

// Expired reports whether the cookie is no longer valid at now
func (c *Cookie) Expired(now time.Time) bool {
	return !c.Expires.After(now)
}

package session

import (
	"regexp"
	"time"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Session is the Redis-resident record behind one tab-scoped login.
// Expiry is enforced by the store key TTL; there is no sweeper.
type Session struct {
	ID        string    `json:"-"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Device    string    `json:"device,omitempty"`
	CSRFToken string    `json:"csrf_token"`
	TabID     string    `json:"tab_id,omitempty"`
}

var tabIDPattern = regexp.MustCompile(`[^A-Za-z0-9_-]`)

const maxTabIDLength = 32

// SanitizeTabID strips anything that cannot appear in a cookie name and
// bounds the length, so a hostile tab ID cannot mangle the cookie header.
func SanitizeTabID(tabID string) string {
	cleaned := tabIDPattern.ReplaceAllString(tabID, "")
	if len(cleaned) > maxTabIDLength {
		cleaned = cleaned[:maxTabIDLength]
	}
	return cleaned
}

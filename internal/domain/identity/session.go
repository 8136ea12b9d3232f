package identity

import "time"

// Session is an opaque platform session key recorded against the
// organization it was opened for. UserID is nil when the session was stored
// for a username that has no local account.
type Session struct {
	ID             int64
	SessionKey     string
	UserID         *int64
	OrganizationID string
	CreatedAt      time.Time
}

// ExpiresAt returns when the session stops being valid under ttl. A
// non-positive ttl means sessions never expire and the zero time is returned.
func (s *Session) ExpiresAt(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.CreatedAt.Add(ttl)
}

// IsExpired reports whether the session is past its ttl at now.
func (s *Session) IsExpired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return !now.Before(s.ExpiresAt(ttl))
}

// BelongsTo reports whether the session was opened for organizationID.
func (s *Session) BelongsTo(organizationID string) bool {
	return s.OrganizationID == organizationID
}

package model

// Session is the server-side record linking a client to an authenticated
// account. It lives in Redis under the session token with a TTL; expiry is
// handled entirely by the store.
type Session struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the session belongs to an admin account.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

package domain

// Session pairs an authentication token with the resolved user identity.
// Token and User are set and cleared together; a record with only one half
// is invalid and must be discarded whole.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Valid reports whether the session carries both halves.
func (s Session) Valid() bool {
	return s.Token != "" && s.User.ID != ""
}

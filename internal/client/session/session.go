// Package session owns the authentication state of the client: the token
// pair, the subject identifier, and the display name, persisted across
// process restarts.
package session

// Session is an immutable snapshot of the authentication state. An empty
// string means the field is absent.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	SubjectID    string `json:"subject_id"`
	DisplayName  string `json:"display_name"`
}

// Authenticated is always derived from the token and subject fields, never
// stored independently.
func (s Session) Authenticated() bool {
	return s.AccessToken != "" && s.SubjectID != ""
}

// IsZero reports whether every field is absent.
func (s Session) IsZero() bool {
	return s == Session{}
}

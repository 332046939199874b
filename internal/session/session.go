// Package session completes the redirect-based login handshake: it extracts
// the one-time exchange code from the landing address, trades it with the
// backend for an identity exactly once, and owns the resulting signed-in
// session until logout or token expiry.
package session

// Identity is the result of a successful exchange: the user profile plus
// the proof of authentication. Handed to the shell on success and not
// mutated afterwards.
type Identity struct {
	UserID        string
	Email         string
	Name          string
	Picture       string
	BusinessName  string
	BusinessGSTIN string
	Plan          string

	// SessionToken doubles as a cookie set by the backend; it is carried
	// here so non-browser shells can present it as a bearer credential.
	SessionToken string
}

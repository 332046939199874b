package session

import "net/url"

// codeParam is the parameter name the identity provider uses when it
// redirects back with an exchange code.
const codeParam = "session_id"

// CodeFromURL extracts the exchange code from a landing address. The URL
// fragment is checked first and takes precedence over the query string;
// an empty result means no code is present.
func CodeFromURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	if u.Fragment != "" {
		if vals, err := url.ParseQuery(u.Fragment); err == nil {
			if code := vals.Get(codeParam); code != "" {
				return code
			}
		}
	}

	return u.Query().Get(codeParam)
}

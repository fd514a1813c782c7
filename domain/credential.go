package domain

import "crypto/subtle"

// Credential is the single configured demo login pair. There is no user
// table; the pair lives in configuration only.
type Credential struct {
	Username string
	Password string
}

// Matches reports whether the submitted pair equals the configured one.
func (c Credential) Matches(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(c.Password), []byte(password)) == 1
	return userOK && passOK
}

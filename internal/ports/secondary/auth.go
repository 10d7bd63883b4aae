package secondary

import "time"

// TokenClaims is what a verified bearer token asserts.
type TokenClaims struct {
	UserID    string
	Role      string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(userID, role string) (token string, expiresAt time.Time, err error)
	Parse(token string) (*TokenClaims, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

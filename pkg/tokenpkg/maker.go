// Package tokenpkg issues and verifies access and refresh tokens.
package tokenpkg

import "time"

// Maker is an interface for managing tokens.
type Maker interface {
	// CreateToken creates a new token for a specific user and duration.
	CreateToken(userID int32, username string, duration time.Duration) (string, *Payload, error)

	// VerifyToken checks if the token is valid or not.
	VerifyToken(token string) (*Payload, error)
}

// NewMaker returns the Maker for tokenType. "jwt" selects JWTMaker, anything else PasetoMaker.
func NewMaker(tokenType, key string) (Maker, error) {
	var (
		m   Maker
		err error
	)

	if tokenType == "jwt" {
		m, err = NewJWTMaker(key)
	} else {
		m, err = NewPasetoMaker(key)
	}

	if err != nil {
		return nil, err
	}

	return m, nil
}

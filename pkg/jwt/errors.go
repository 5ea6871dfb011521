package jwt

import "errors"

var (
	ErrInvalidToken      = errors.New("jwt: invalid token")
	ErrMissingSigningKey = errors.New("jwt: missing signing key")
	ErrInvalidTTL        = errors.New("jwt: token ttl must be positive")
)

// Package jwt issues and verifies the bearer tokens that carry a user's
// identity between requests.
//
// Tokens are compact HS256-signed JWTs (three dot-separated base64url
// segments) with the user's login as subject and the granted role
// identifiers in a "roles" claim. The signing key is symmetric and
// immutable after construction; there is no rotation or revocation, a
// token stays valid until its expiry.
//
// Usage:
//
//	codec, err := jwt.New([]byte(secret), 15*time.Minute)
//	if err != nil {
//		return err
//	}
//
//	token, err := codec.Issue("alice", []string{"USER"}, time.Now())
//
//	claims, err := codec.Parse(token, time.Now())
//	if err != nil {
//		// errors.Is(err, jwt.ErrInvalidToken) for any verification failure
//	}
//
// Verification is a pure function of (token, time, key) and is safe for
// unlimited concurrent use.
package jwt

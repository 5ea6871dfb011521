package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: the standard registered claims plus the
// role identifiers granted to the subject at issuance time.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwtlib.RegisteredClaims
}

// Config holds the token codec settings loaded from the environment.
type Config struct {
	Secret string `env:"JWT_SECRET,required"`           // Secret is the symmetric signing key.
	TTL    int64  `env:"JWT_TTL_MS,required"`           // TTL is the token lifetime in milliseconds.
	Issuer string `env:"JWT_ISSUER" envDefault:"authservice"` // Issuer is recorded in the iss claim.
}

// Service signs and parses bearer tokens with a single HS256 key.
type Service struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
}

// New creates a token codec with the given signing key and token lifetime.
// The key should be at least 32 bytes for adequate HMAC-SHA256 strength.
func New(signingKey []byte, ttl time.Duration) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	return &Service{signingKey: signingKey, ttl: ttl}, nil
}

// NewFromConfig creates a token codec from an environment config.
// The configured TTL is interpreted as milliseconds.
func NewFromConfig(cfg Config) (*Service, error) {
	s, err := New([]byte(cfg.Secret), time.Duration(cfg.TTL)*time.Millisecond)
	if err != nil {
		return nil, err
	}
	s.issuer = cfg.Issuer
	return s, nil
}

// Issue signs a token asserting that subject holds the given roles.
// The token expires at now + ttl. For a fixed key, subject, roles and
// timestamp the output is reproducible.
func (s *Service) Issue(subject string, roles []string, now time.Time) (string, error) {
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// Parse verifies the token signature and expiry against now and returns
// the embedded claims. Every failure mode (bad signature, malformed
// structure, unexpected algorithm, expiry) reports ErrInvalidToken; a
// past iat on its own is not rejected.
func (s *Service) Parse(tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	token, err := jwtlib.ParseWithClaims(tokenString, claims,
		func(t *jwtlib.Token) (any, error) { return s.signingKey, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

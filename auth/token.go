package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for every verification failure: missing,
	// malformed, wrong signature, wrong issuer or expired. Callers must not
	// be able to tell these apart.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMissingSigningKey is returned when the service has no secret to sign with
	ErrMissingSigningKey = errors.New("signing key is not configured")

	// ErrMissingIdentity is returned when issuing a token for an empty identity
	ErrMissingIdentity = errors.New("identity email is required")
)

// Identity is the claim signed into a token
type Identity struct {
	Email string `json:"email" validate:"required,email"`
}

// tokenClaims is the JWT payload
type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 identity tokens.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// Option configures a TokenService
type Option func(*TokenService)

// WithIssuer sets the iss claim written and required by the service
func WithIssuer(issuer string) Option {
	return func(s *TokenService) {
		s.issuer = issuer
	}
}

// WithClock overrides the time source used for iat/exp
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a token service signing with secret
func NewTokenService(secret string, opts ...Option) *TokenService {
	s := &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for identity that expires ttl from now
func (s *TokenService) Issue(identity Identity, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSigningKey
	}
	if identity.Email == "" {
		return "", ErrMissingIdentity
	}

	now := s.now()
	claims := tokenClaims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its identity.
// Any failure yields ErrInvalidToken.
func (s *TokenService) Verify(token string) (*Identity, error) {
	if token == "" || len(s.secret) == 0 {
		return nil, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{Email: claims.Email}, nil
}

package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Supported HMAC algorithm identifiers.
const (
	AlgHS256 = "HS256"
	AlgHS384 = "HS384"
	AlgHS512 = "HS512"
)

// Token is a freshly signed token plus the bits callers need without
// parsing it again.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// Codec signs and validates HMAC JWTs with a single process-wide key. It
// holds no mutable state and is safe for concurrent use.
type Codec struct {
	key    []byte
	method jwt.SigningMethod
	issuer string
	now    func() time.Time
}

// Option customises a Codec.
type Option func(*Codec)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec creates a codec for alg (HS256, HS384 or HS512).
func NewCodec(key []byte, alg, issuer string, opts ...Option) (*Codec, error) {
	if len(key) == 0 {
		return nil, errors.New("jwtx: empty signing key")
	}

	method, err := methodFor(alg)
	if err != nil {
		return nil, err
	}

	c := &Codec{
		key:    append([]byte(nil), key...),
		method: method,
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func methodFor(alg string) (jwt.SigningMethod, error) {
	switch alg {
	case AlgHS256:
		return jwt.SigningMethodHS256, nil
	case AlgHS384:
		return jwt.SigningMethodHS384, nil
	case AlgHS512:
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlg, alg)
	}
}

// Alg returns the configured algorithm identifier.
func (c *Codec) Alg() string { return c.method.Alg() }

// Issue signs a token for subject that expires ttl from now. A non-positive
// ttl falls back to DefaultAccessTokenTTL.
func (c *Codec) Issue(subject string, ttl time.Duration) (Token, error) {
	if subject == "" {
		return Token{}, errors.New("jwtx: cannot issue token without subject")
	}

	claims := NewClaims(subject, c.issuer, ttl, c.now().UTC())
	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.key)
	if err != nil {
		return Token{}, fmt.Errorf("jwtx: sign: %w", err)
	}

	return Token{
		Value:     signed,
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Validate verifies the signature and algorithm of token and then checks
// its claims. Every failure wraps ErrInvalid.
func (c *Codec) Validate(token string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}

	if err := claims.ValidateIssuer(c.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateSubject(); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(c.now().UTC()); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrAlgMismatch, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
}

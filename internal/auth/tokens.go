package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultVerificationTTL is how long an email verification link stays valid.
const DefaultVerificationTTL = time.Hour

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenKind separates the purposes a token may be presented for.
type TokenKind string

const (
	KindAccess            TokenKind = "access"
	KindRefresh           TokenKind = "refresh"
	KindEmailVerification TokenKind = "email_verification"
)

// Claims is the signed payload. Subject is the user id for access and
// refresh tokens and the email address for verification tokens.
type Claims struct {
	Role string    `json:"role,omitempty"`
	Kind TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HMAC JWTs. It holds no mutable state.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// NewTokenCodec accepts HS256, HS384 and HS512.
func NewTokenCodec(secret []byte, algorithm string) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is empty")
	}
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenCodec{secret: secret, method: method, now: time.Now}, nil
}

// WithClock returns a copy of c that reads time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

func (c *TokenCodec) IssueAccess(subject, role string, ttl time.Duration) (string, error) {
	return c.issue(KindAccess, subject, role, ttl)
}

func (c *TokenCodec) IssueRefresh(subject, role string, ttl time.Duration) (string, error) {
	return c.issue(KindRefresh, subject, role, ttl)
}

// IssueEmailVerification uses DefaultVerificationTTL when ttl is not positive.
func (c *TokenCodec) IssueEmailVerification(email string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultVerificationTTL
	}
	return c.issue(KindEmailVerification, email, "", ttl)
}

func (c *TokenCodec) issue(kind TokenKind, subject, role string, ttl time.Duration) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(c.method, Claims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	s, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Decode verifies signature, algorithm and expiry and checks that the token
// was issued for kind. It returns ErrTokenExpired or ErrTokenInvalid.
func (c *TokenCodec) Decode(tokenString string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.Subject == "" || claims.Kind != kind {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

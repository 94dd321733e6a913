package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, expiry, missing subject, or purpose mismatch.
var ErrInvalidToken = errors.New("invalid token")

const (
	PurposeSession = "session"
	PurposeReset   = "reset"
)

// Claims is the payload carried by every token this package issues.
type Claims struct {
	Role    string `json:"role,omitempty"`
	Purpose string `json:"type"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HMAC-signed JWTs.
type TokenManager struct {
	secret []byte
	issuer string
	method *jwt.SigningMethodHMAC
	now    func() time.Time
}

// NewTokenManager creates a manager for the given secret, issuer and HMAC
// algorithm name (HS256, HS384 or HS512).
func NewTokenManager(secret, issuer, algorithm string) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}
	method, err := signingMethod(algorithm)
	if err != nil {
		return nil, err
	}
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		method: method,
		now:    time.Now,
	}, nil
}

func signingMethod(name string) (*jwt.SigningMethodHMAC, error) {
	switch name {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", name)
	}
}

// Issue signs a token for subject valid for ttl. An empty purpose means session.
func (t *TokenManager) Issue(subject string, claims Claims, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is empty")
	}
	if claims.Purpose == "" {
		claims.Purpose = PurposeSession
	}
	now := t.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    t.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiryCeil(now.Add(ttl))),
	}
	token := jwt.NewWithClaims(t.method, claims)
	return token.SignedString(t.secret)
}

// expiryCeil rounds up to the whole second because NumericDate drops fractions.
func expiryCeil(t time.Time) time.Time {
	if rounded := t.Truncate(time.Second); rounded.Before(t) {
		return rounded.Add(time.Second)
	}
	return t
}

// Verify parses token and checks it was issued for expectedPurpose
// (session when empty). Any failure yields ErrInvalidToken.
func (t *TokenManager) Verify(token, expectedPurpose string) (*Claims, error) {
	if expectedPurpose == "" {
		expectedPurpose = PurposeSession
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Purpose != expectedPurpose {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

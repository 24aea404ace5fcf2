package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storeratings/internal/domain"
)

// DefaultTokenTTL is the validity window applied when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// ErrTokenExpired marks tokens past their validity window.
var ErrTokenExpired = errors.New("auth: token expired")

// ErrTokenMalformed marks tokens with an invalid structure, signature, or
// payload.
var ErrTokenMalformed = errors.New("auth: token malformed")

// Identity is the verified subject carried by a token.
type Identity struct {
	UserID string
	Role   domain.Role
}

// Claims is the signed token payload binding a subject to a role.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TokenService issues and verifies signed, time-bounded identity assertions.
// It is stateless: there is no revocation list, so an issued token stays
// valid for its whole window even if the account's role or password changes
// afterwards.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
}

// NewTokenService creates a TokenService with an explicit signing key and
// validity window.
func NewTokenService(signingKey []byte, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{signingKey: signingKey, ttl: ttl}
}

// Issue signs an assertion of the user's identity and role valid for the
// configured window starting now.
func (ts *TokenService) Issue(userID string, role domain.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
		Role: string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning the identity it
// asserts. The signature covers the full payload, so tampered tokens never
// verify.
func (ts *TokenService) Verify(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrTokenMalformed
	}
	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return Identity{}, ErrTokenMalformed
	}
	return Identity{UserID: claims.RegisteredClaims.Subject, Role: role}, nil
}

// Package auth issues and verifies the JWTs that identify sportsdesk users.
// It is independent of HTTP so the admin CLI can mint tokens too.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sportsdesk/internal/domain/entity"
)

// MinSecretLength is the shortest accepted HMAC secret.
const MinSecretLength = 32

const issuer = "sportsdesk"

var ErrInvalidToken = errors.New("invalid token")

// Credentials represents authentication credentials.
type Credentials struct {
	Username string
	Password string
}

// AuthProvider checks credentials against the user store.
type AuthProvider interface {
	Authenticate(ctx context.Context, username, password string) (*entity.User, error)
}

// Claims carried by every token. Subject holds the user ID.
type Claims struct {
	Username string      `json:"username"`
	Role     entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// AuthService handles authentication business logic.
type AuthService struct {
	provider AuthProvider
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService validates the secret and returns a service issuing tokens
// valid for ttl.
func NewAuthService(provider AuthProvider, secret string, ttl time.Duration) (*AuthService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("JWT secret must be at least %d characters", MinSecretLength)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AuthService{provider: provider, secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Login checks the credentials and returns a signed token for the user.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (string, *entity.User, time.Time, error) {
	u, err := s.provider.Authenticate(ctx, creds.Username, creds.Password)
	if err != nil {
		return "", nil, time.Time{}, err
	}
	token, exp, err := s.Issue(u)
	if err != nil {
		return "", nil, time.Time{}, err
	}
	return token, u, exp, nil
}

// Issue signs a token for u.
func (s *AuthService) Issue(u *entity.User) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies the signature, algorithm, issuer and expiry of raw.
func (s *AuthService) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

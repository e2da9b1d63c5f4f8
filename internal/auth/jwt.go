// Package auth provides JWT token issuance and validation.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type constants for the typ claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Token expiration durations.
const (
	AccessTokenExpiry  = 15 * time.Minute
	RefreshTokenExpiry = 7 * 24 * time.Hour
)

// DefaultLeeway tolerates small clock skew during validation.
const DefaultLeeway = 30 * time.Second

// ErrInvalidToken is returned when token validation fails.
var ErrInvalidToken = errors.New("invalid token")

// ErrExpiredToken is returned when the token has expired.
var ErrExpiredToken = errors.New("token has expired")

// ErrEmptyUserID is returned when a token is requested for an empty
// user ID.
var ErrEmptyUserID = errors.New("userID cannot be empty")

// Claims are the JWT claims carried by Skrolz tokens. The subject is
// the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"typ"` // "access" or "refresh"
}

// JWTService signs and validates tokens. It supports dual-key
// rotation: tokens are signed with the current secret but validate
// against either the current or the previous secret, so rotation does
// not invalidate live sessions.
type JWTService struct {
	currentSecret  []byte
	previousSecret []byte
	leeway         time.Duration
}

// NewJWTService creates a JWTService with a single signing secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		currentSecret: []byte(secret),
		leeway:        DefaultLeeway,
	}
}

// NewJWTServiceWithRotation creates a JWTService that also accepts
// tokens signed with previousSecret. Pass an empty previousSecret when
// no rotation is in progress.
func NewJWTServiceWithRotation(currentSecret, previousSecret string) *JWTService {
	svc := &JWTService{
		currentSecret: []byte(currentSecret),
		leeway:        DefaultLeeway,
	}
	if previousSecret != "" {
		svc.previousSecret = []byte(previousSecret)
	}
	return svc
}

// GenerateAccessToken creates an access token for the given user.
func (s *JWTService) GenerateAccessToken(userID string) (string, error) {
	return s.generate(userID, TokenTypeAccess, AccessTokenExpiry)
}

// GenerateRefreshToken creates a refresh token for the given user.
func (s *JWTService) GenerateRefreshToken(userID string) (string, error) {
	return s.generate(userID, TokenTypeRefresh, RefreshTokenExpiry)
}

func (s *JWTService) generate(userID, typ string, expiry time.Duration) (string, error) {
	if userID == "" {
		return "", ErrEmptyUserID
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Type: typ,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.currentSecret)
}

// ValidateToken parses and validates a token, returning its claims.
// Tries the current secret first, then the previous secret when one is
// configured.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString, s.currentSecret)
	if err == nil {
		return claims, nil
	}

	if s.previousSecret != nil {
		if claims, prevErr := s.parse(tokenString, s.previousSecret); prevErr == nil {
			return claims, nil
		}
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrExpiredToken
	}
	return nil, ErrInvalidToken
}

// ValidateAccessToken validates an access token and returns the
// subject user ID. Refresh tokens are rejected so they cannot be used
// as bearer credentials.
func (s *JWTService) ValidateAccessToken(tokenString string) (string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Type != TokenTypeAccess {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *JWTService) parse(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithLeeway(s.leeway))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

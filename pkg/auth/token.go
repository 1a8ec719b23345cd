package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

const (
	TokenTypeAccess = "access"
	TokenTypeVerify = "verify"

	VerificationTokenTTL = time.Hour
)

// Claims identify an authenticated user
type Claims struct {
	UserID string     `json:"userId"`
	Email  string     `json:"email,omitempty"`
	Role   model.Role `json:"role,omitempty"`
	OrgID  string     `json:"orgId,omitempty"`
	Type   string     `json:"type"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 tokens
type TokenService struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

// NewTokenService creates a TokenService signing with secret
func NewTokenService(secret string, accessTTL time.Duration) *TokenService {
	return &TokenService{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// IssueAccessToken signs a session token for user
func (s *TokenService) IssueAccessToken(user *model.User) (string, time.Time, error) {
	expiry := s.now().Add(s.accessTTL)
	token, err := s.sign(Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		OrgID:  user.OrgID,
		Type:   TokenTypeAccess,
	}, expiry)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, expiry, nil
}

// IssueVerificationToken signs a one-hour email verification token
func (s *TokenService) IssueVerificationToken(userID string) (string, error) {
	token, err := s.sign(Claims{UserID: userID, Type: TokenTypeVerify}, s.now().Add(VerificationTokenTTL))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return token, nil
}

// ParseAccessToken validates a session token
func (s *TokenService) ParseAccessToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString, TokenTypeAccess)
}

// ParseVerificationToken validates an email verification token
func (s *TokenService) ParseVerificationToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString, TokenTypeVerify)
}

func (s *TokenService) sign(claims Claims, expiry time.Time) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *TokenService) parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", model.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%w: invalid token", model.ErrUnauthenticated)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", model.ErrUnauthenticated)
	}
	if claims.Type != wantType {
		return nil, fmt.Errorf("%w: expected %s token, got %s", model.ErrUnauthenticated, wantType, claims.Type)
	}
	return claims, nil
}

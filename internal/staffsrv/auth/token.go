// Package auth extracts the caller identity from bearer tokens.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffcommon"
)

const issuer = "tansive-workforce"

// TokenService signs and verifies HMAC bearer tokens carrying a Caller.
type TokenService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

// Issue returns a signed token for c.
func (s *TokenService) Issue(c *staffcommon.Caller) (string, apperrors.Error) {
	if len(s.secret) == 0 {
		return "", ErrNoSigningSecret
	}
	now := s.now()
	claims := jwt.MapClaims{
		"iss":  issuer,
		"sub":  c.ID,
		"iat":  now.Unix(),
		"exp":  now.Add(s.expiry).Unix(),
		"id":   c.ID,
		"code": c.Code,
		"role": c.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", ErrTokenGeneration.Err(err)
	}
	return signed, nil
}

// Parse verifies tokenString and returns the caller it carries.
func (s *TokenService) Parse(ctx context.Context, tokenString string) (*staffcommon.Caller, apperrors.Error) {
	if len(s.secret) == 0 {
		return nil, ErrNoSigningSecret
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to parse token")
		return nil, ErrInvalidToken.Err(err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	c := &staffcommon.Caller{}
	c.ID, _ = claims["id"].(string)
	c.Code, _ = claims["code"].(string)
	c.Role, _ = claims["role"].(string)
	if c.ID == "" || c.Role == "" {
		return nil, ErrMissingClaims
	}
	return c, nil
}

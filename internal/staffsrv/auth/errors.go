package auth

import (
	"net/http"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
)

var (
	ErrAuth apperrors.Error = apperrors.New("auth error").SetStatusCode(http.StatusInternalServerError)

	ErrUnauthorized    apperrors.Error = ErrAuth.New("unauthorized access").SetStatusCode(http.StatusUnauthorized)
	ErrInvalidToken    apperrors.Error = ErrUnauthorized.New("invalid authorization token")
	ErrMissingClaims   apperrors.Error = ErrUnauthorized.New("token is missing caller claims")
	ErrTokenGeneration apperrors.Error = ErrAuth.New("failed to generate token")
	ErrNoSigningSecret apperrors.Error = ErrAuth.New("token secret is not configured")
)

package auth

import (
	"net/http"
	"strings"

	"github.com/tansive/tansive-workforce/internal/common/httpx"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffcommon"
)

// CallerValidator rejects requests without a valid bearer token and stores
// the caller in the request context.
func CallerValidator(s *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				httpx.ErrUnAuthorized("missing or invalid authorization token").Send(w)
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			caller, err := s.Parse(r.Context(), token)
			if err != nil {
				httpx.ErrUnAuthorized("invalid authorization token").Send(w)
				return
			}
			ctx := staffcommon.WithCaller(r.Context(), caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

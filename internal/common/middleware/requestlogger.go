package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tansive/tansive-workforce/internal/common/httpx"
	"github.com/tansive/tansive-workforce/internal/common/logtrace"
)

const RequestIdHeader = "X-Workforce-Request-ID"

// RequestLogger is a middleware that logs the request details and adds a unique request ID to the context.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		requestID := newRequestId()
		ctx = logtrace.SetRequestIdInContext(ctx, requestID)
		// Add a sub-logger with requestId to context
		ctx = log.With().Str("request_id", requestID).Logger().WithContext(ctx)
		w.Header().Set(RequestIdHeader, requestID)

		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		requestURL := fmt.Sprintf("%s://%s%s", scheme, r.Host, r.RequestURI)
		requestFields := map[string]interface{}{
			"requestURL":    requestURL,
			"requestMethod": r.Method,
			"requestPath":   r.URL.Path,
			"remoteIP":      r.RemoteAddr,
			"proto":         r.Proto,
		}
		log.Ctx(ctx).Info().Fields(requestFields).Msg("request received")

		rw := httpx.NewResponseWriter(w)
		next.ServeHTTP(rw, r.WithContext(ctx))

		log.Ctx(ctx).Info().
			Int("status", rw.Status()).
			Int("bytes", rw.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request completed")
	})
}

func newRequestId() string {
	u, err := uuid.NewRandom()
	if err == nil {
		return u.String()
	} else {
		return ""
	}
}

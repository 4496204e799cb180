package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/tansive/tansive-workforce/internal/common/httpx"
	"github.com/tansive/tansive-workforce/internal/common/logtrace"
)

// PanicHandler turns a handler panic into a 500 reply. http.ErrAbortHandler
// is re-raised so the server still aborts the connection.
func PanicHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Ctx(r.Context()).Error().
				Str("request_id", logtrace.RequestIdFromContext(r.Context())).
				Bytes("stack", debug.Stack()).
				Msgf("recovered from panic: %v", rec)
			httpx.ErrApplicationError("Unable to process request. Please try again later.").Send(w)
		}()
		next.ServeHTTP(w, r)
	})
}

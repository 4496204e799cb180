package logtrace

import (
	"context"
	"sync/atomic"
)

type requestIdKeyType string

const requestIdKey requestIdKeyType = "requestId"

var traceEnabled atomic.Bool

// SetRequestIdInContext stores the request id assigned by the request logger.
func SetRequestIdInContext(ctx context.Context, requestId string) context.Context {
	return context.WithValue(ctx, requestIdKey, requestId)
}

func RequestIdFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	r, ok := ctx.Value(requestIdKey).(string)
	if !ok {
		return ""
	}
	return r
}

func SetTraceEnabled(enabled bool) {
	traceEnabled.Store(enabled)
}

func IsTraceEnabled() bool {
	return traceEnabled.Load()
}

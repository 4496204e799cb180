// Package staffcommon holds helpers shared by the workforce service packages.
package staffcommon

import "context"

type ctxKeyType string

const ctxCallerKey ctxKeyType = "WorkforceCaller"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Caller is the authenticated principal of a request. For admins ID is the
// tenant id; for employees it is the employee id and Code the tenant code.
type Caller struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Role string `json:"role"`
}

func WithCaller(ctx context.Context, c *Caller) context.Context {
	return context.WithValue(ctx, ctxCallerKey, c)
}

// CallerFromContext returns nil when no caller was set.
func CallerFromContext(ctx context.Context) *Caller {
	if c, ok := ctx.Value(ctxCallerKey).(*Caller); ok {
		return c
	}
	return nil
}

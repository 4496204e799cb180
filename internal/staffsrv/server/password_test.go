package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tansive/tansive-workforce/internal/staffsrv/staffcommon"
)

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)
	empID := env.createEmployee(t, "Asha", "asha@acme.test")

	response := env.do(t, http.MethodPost, "/reset-password", map[string]any{"password": "n3w"})
	require.Equal(t, http.StatusUnauthorized, response.Code)

	response = env.do(t, http.MethodPost, "/reset-password", map[string]any{"password": "n3w"}, "Authorization", "Bearer garbage")
	require.Equal(t, http.StatusUnauthorized, response.Code)

	tests := []struct {
		name   string
		caller *staffcommon.Caller
		status int
		digest func() string
	}{
		{
			name:   "admin",
			caller: &staffcommon.Caller{ID: env.tenant.ID, Role: staffcommon.RoleAdmin},
			status: http.StatusOK,
			digest: func() string { return env.store.TenantPasswordHash(env.tenant.ID) },
		},
		{
			name:   "employee",
			caller: &staffcommon.Caller{ID: empID, Code: testTenantCode, Role: staffcommon.RoleEmployee},
			status: http.StatusOK,
			digest: func() string { return env.store.EmployeePasswordHash(testDatabase, empID) },
		},
		{
			name:   "unknown role",
			caller: &staffcommon.Caller{ID: empID, Code: testTenantCode, Role: "guest"},
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := env.tokens.Issue(tt.caller)
			require.Nil(t, err)
			response := env.do(t, http.MethodPost, "/reset-password", map[string]any{"password": "n3w"}, "Authorization", "Bearer "+token)
			require.Equal(t, tt.status, response.Code, response.Body.String())
			if tt.digest != nil {
				digest := tt.digest()
				assert.NotEqual(t, "n3w", digest)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(digest), []byte("n3w")))
			}
		})
	}
}

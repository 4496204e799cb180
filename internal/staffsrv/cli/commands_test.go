package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/tansive/tansive-workforce/internal/staffsrv/auth"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
	"github.com/tansive/tansive-workforce/internal/staffsrv/server"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffcommon"
)

const testConfig = `format_version = "0.1"
server_port = "8196"
storage = "memory"
bcrypt_cost = 4

[auth]
token_secret = "cli-secret"

[[tenants]]
database = "acme"
host = "db.internal"
port = 5433
code = "ACME"
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workforce.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", writeConfig(t)}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "-j")
	require.NoError(t, err)
	assert.Equal(t, server.ServerVersion, gjson.Get(out, "serverVersion").String())
	assert.Equal(t, server.ApiVersion, gjson.Get(out, "apiVersion").String())
}

func TestResolve(t *testing.T) {
	out, err := run(t, "resolve", "ACME", "-j")
	require.NoError(t, err)
	assert.Equal(t, "ACME", gjson.Get(out, "tenantCode").String())
	assert.Equal(t, "acme", gjson.Get(out, "database").String())
	assert.Equal(t, "db.internal", gjson.Get(out, "host").String())
	assert.Equal(t, int64(5433), gjson.Get(out, "port").Int())

	out, err = run(t, "resolve", "ACME")
	require.NoError(t, err)
	assert.Contains(t, out, "Database: acme on db.internal:5433")
}

func TestResolveUnknownTenant(t *testing.T) {
	_, err := run(t, "resolve", "NOPE")
	require.Error(t, err)
	assert.Equal(t, "Tenant not found", err.Error())
}

func TestDesignationsSeedsDefaults(t *testing.T) {
	out, err := run(t, "designations", "ACME")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, models.DefaultDesignations, lines)
}

func TestResetPassword(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"tenant admin", []string{"reset-password", "ACME", "--password", "n3w"}, ""},
		{"unknown employee", []string{"reset-password", "ACME", "--employee", "99", "--password", "n3w"}, "User not found. Unable to reset password"},
		{"unknown tenant", []string{"reset-password", "NOPE", "--password", "n3w"}, "Tenant not found"},
		{"missing password", []string{"reset-password", "ACME"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, "Password reset successfully.")
		})
	}
}

func TestToken(t *testing.T) {
	tokens := auth.NewTokenService("cli-secret", time.Hour)

	out, err := run(t, "token", "ACME")
	require.NoError(t, err)
	caller, aerr := tokens.Parse(context.Background(), strings.TrimSpace(out))
	require.Nil(t, aerr)
	assert.Equal(t, staffcommon.RoleAdmin, caller.Role)
	assert.Equal(t, "ACME", caller.Code)

	out, err = run(t, "token", "ACME", "--employee", "7", "-j")
	require.NoError(t, err)
	caller, aerr = tokens.Parse(context.Background(), gjson.Get(out, "token").String())
	require.Nil(t, aerr)
	assert.Equal(t, staffcommon.RoleEmployee, caller.Role)
	assert.Equal(t, "7", caller.ID)
}

func TestBadConfigFile(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.toml"), "version"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to load config file")
}

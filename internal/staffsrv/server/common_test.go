package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tansive/tansive-workforce/internal/common/middleware"
	"github.com/tansive/tansive-workforce/internal/staffsrv/auth"
	"github.com/tansive/tansive-workforce/internal/staffsrv/config"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/memstore"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/tenantdirectory"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffcommon"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffmanager"
)

const (
	testTenantCode = "ACME"
	testDatabase   = "Acme"
	testSecret     = "test-secret"
)

type testEnv struct {
	s      *WorkforceServer
	store  *memstore.Store
	tenant *models.Tenant
	tokens *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memstore.New()
	tenant := store.AddTenant(testTenantCode, testDatabase)
	m := staffmanager.New(staffmanager.Config{
		Directory:    tenantdirectory.New(store, []config.DBConnConfig{{Database: testDatabase}}),
		Stores:       store,
		ControlPlane: store,
		Hasher:       staffcommon.NewBcryptHasher(4),
	})
	tokens := auth.NewTokenService(testSecret, time.Hour)
	s, err := CreateNewServer(m, tokens)
	require.NoError(t, err, "create new server")
	s.MountHandlers()
	return &testEnv{s: s, store: store, tenant: tenant, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	e.s.Router.ServeHTTP(rr, req)
	return rr
}

func checkHeader(t *testing.T, h http.Header) {
	expected := "application/json"
	got := h.Get("Content-Type")
	assert.Equal(t, expected, got, "Content-Type expected %s, got %s", expected, got)
	assert.NotEmpty(t, h.Get(middleware.RequestIdHeader), "No Request Id")
}

func compareJson(t *testing.T, expected any, actual string) {
	j, err := json.Marshal(expected)
	assert.NoError(t, err, "json marshal")
	assert.JSONEq(t, string(j), actual, "Expected: %v\n Got: %v\n", expected, actual)
}

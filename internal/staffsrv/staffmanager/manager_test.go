package staffmanager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/config"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/memstore"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/tenantdirectory"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffcommon"
)

const (
	testTenantCode = "ACME"
	testTenantName = "Acme"
	// testDatabase differs in case from the tenant name on purpose.
	testDatabase = "acme"
)

type fixture struct {
	m      *Manager
	store  *memstore.Store
	tenant *models.Tenant
	hasher staffcommon.PasswordHasher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	tenant := store.AddTenant(testTenantCode, testTenantName)
	hasher := staffcommon.NewBcryptHasher(4)
	dir := tenantdirectory.New(store, []config.DBConnConfig{{Database: testDatabase}})
	m := New(Config{
		Directory:         dir,
		Stores:            store,
		ControlPlane:      store,
		Hasher:            hasher,
		EnrichConcurrency: 2,
	})
	return &fixture{m: m, store: store, tenant: tenant, hasher: hasher}
}

// failOn returns a fault that fails the named store operation.
func failOn(op string, err apperrors.Error) memstore.Fault {
	return func(name string) apperrors.Error {
		if name == op {
			return err
		}
		return nil
	}
}

func (f *fixture) addEmployee(t *testing.T, first, email, studio string) *EmployeeView {
	t.Helper()
	in := &NewEmployee{Password: "secret"}
	in.FirstName = first
	in.LastName = first + "son"
	in.Email = email
	in.StudioName = studio
	in.Designation = "Software Consultant"
	rsp, err := f.m.CreateEmployee(context.Background(), testTenantCode, in)
	require.Nil(t, err)
	view, ok := rsp.Data.(*EmployeeView)
	require.True(t, ok, rsp.Message)
	return view
}

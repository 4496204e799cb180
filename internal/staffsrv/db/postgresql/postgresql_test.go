package postgresql

import (
	"context"
	"database/sql/driver"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/config"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dbmanager"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dbtest"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
)

var acme = config.DBConnConfig{Database: "AcmeCorp", Host: "localhost", User: "acme"}

func newTestSession(t *testing.T, responder dbtest.Responder) (db.TenantSession, *dbtest.Driver) {
	t.Helper()
	d := dbtest.Register()
	d.SetResponder(responder)
	gw := dbmanager.NewGateway(context.Background(), dbmanager.Options{DriverName: d.Name, Mode: config.PoolModePerCall})
	t.Cleanup(gw.Close)
	return NewStoreProvider(gw).Open(acme), d
}

func employeeRow(id, firstName, studio string) []driver.Value {
	cols := employeeResultColumns()
	row := make([]driver.Value, len(cols))
	for i, c := range cols {
		switch c {
		case "id":
			row[i] = id
		case "first_name":
			row[i] = firstName
		case "studio_name":
			row[i] = studio
		case "competency_head":
			row[i] = false
		case "created_at", "updated_at":
			row[i] = time.Unix(0, 0)
		default:
			row[i] = ""
		}
	}
	return row
}

var aliasRe = regexp.MustCompile(` AS (\w+)`)

// employeeResultColumns returns the aliases produced by employeeColumns.
func employeeResultColumns() []string {
	var cols []string
	for _, m := range aliasRe.FindAllStringSubmatch(employeeColumns, -1) {
		cols = append(cols, m[1])
	}
	return cols
}

func TestEscapeLikePrefix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"al", "al"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`c:\dir`, `c:\\dir`},
		{"'; DROP TABLE employee; --", "'; DROP TABLE employee; --"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLikePrefix(tt.in))
		})
	}
}

func TestFilterEmployeesBindsPrefix(t *testing.T) {
	s, d := newTestSession(t, func(query string, args []driver.Value) (*dbtest.Result, error) {
		return &dbtest.Result{Columns: employeeResultColumns(), Rows: [][]driver.Value{employeeRow("1", "Al%ce", "Cloud")}}, nil
	})
	ctx := context.Background()
	employees, err := s.Stores().Employees.FilterEmployeesByName(ctx, "Al%")
	require.Nil(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Al%ce", employees[0].FirstName)

	_, err = s.Stores().Employees.FilterEmployeesByLocation(ctx, "pu_ne")
	require.Nil(t, err)

	stmts := d.Statements()
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0].Query, "first_name ILIKE $1 || '%'")
	assert.Equal(t, []driver.Value{`Al\%`}, stmts[0].Args)
	assert.Contains(t, stmts[1].Query, "location ILIKE $1 || '%'")
	assert.Equal(t, []driver.Value{`pu\_ne`}, stmts[1].Args)
	assert.NotContains(t, stmts[0].Query, "password")
}

func TestGetEmployeesByIDsSingleStatement(t *testing.T) {
	s, d := newTestSession(t, func(query string, args []driver.Value) (*dbtest.Result, error) {
		return &dbtest.Result{Columns: employeeResultColumns(), Rows: [][]driver.Value{
			employeeRow("1", "Alice", "Cloud"), employeeRow("2", "Bob", "Data"),
		}}, nil
	})
	employees, err := s.Stores().Employees.GetEmployeesByIDs(context.Background(), []string{"1", "2", "3"})
	require.Nil(t, err)
	assert.Len(t, employees, 2)

	stmts := d.Statements()
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0].Query, "WHERE id = ANY($1)")
	assert.Equal(t, []driver.Value{`{"1","2","3"}`}, stmts[0].Args)

	employees, err = s.Stores().Employees.GetEmployeesByIDs(context.Background(), nil)
	require.Nil(t, err)
	assert.Empty(t, employees)
	assert.Len(t, d.Statements(), 1)
}

func TestGetEmployeeNotFound(t *testing.T) {
	tests := []struct {
		name      string
		responder dbtest.Responder
	}{
		{
			name: "no rows",
			responder: func(query string, args []driver.Value) (*dbtest.Result, error) {
				return &dbtest.Result{Columns: employeeResultColumns()}, nil
			},
		},
		{
			name: "malformed id",
			responder: func(query string, args []driver.Value) (*dbtest.Result, error) {
				return nil, &pgconn.PgError{Severity: "ERROR", Code: "22P02", Message: "invalid input syntax for type integer"}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, d := newTestSession(t, tt.responder)
			_, err := s.Stores().Employees.GetEmployee(context.Background(), "4x2")
			assert.ErrorIs(t, err, dberror.ErrNotFound)
			stmts := d.Statements()
			require.Len(t, stmts, 1)
			assert.True(t, strings.HasSuffix(stmts[0].Query, "FROM employee WHERE id = $1"), stmts[0].Query)
		})
	}
}

func TestUpdateStatementsReportMissingRows(t *testing.T) {
	s, _ := newTestSession(t, func(query string, args []driver.Value) (*dbtest.Result, error) {
		return &dbtest.Result{RowsAffected: 0}, nil
	})
	ctx := context.Background()
	stores := s.Stores()
	tests := []struct {
		name string
		run  func() apperrors.Error
	}{
		{"employee status", func() apperrors.Error {
			return stores.Employees.SetEmployeeStatus(ctx, "1", models.EmployeeStatusInactive)
		}},
		{"employee password", func() apperrors.Error { return stores.Employees.SetEmployeePassword(ctx, "1", "hash") }},
		{"project delete", func() apperrors.Error { return stores.Projects.DeleteProject(ctx, "1") }},
		{"project update", func() apperrors.Error {
			return stores.Projects.UpdateProject(ctx, &models.Project{ID: "1", Title: "Apollo"})
		}},
		{"membership update", func() apperrors.Error {
			return stores.Memberships.UpdateMembership(ctx, &models.ProjectEmployee{ProjectID: "1", EmployeeID: "2"})
		}},
		{"competency head", func() apperrors.Error { return stores.Competencies.UpdateCompetencyHeadByName(ctx, "Cloud", "Alice") }},
		{"competency delete", func() apperrors.Error { return stores.Competencies.DeleteCompetency(ctx, "1") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), dberror.ErrNotFound)
		})
	}
}

func TestProjectDatesBindAsNull(t *testing.T) {
	s, d := newTestSession(t, func(query string, args []driver.Value) (*dbtest.Result, error) {
		return &dbtest.Result{RowsAffected: 1}, nil
	})
	p := &models.Project{Title: "Apollo", StartDate: pgtype.Date{Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Status: pgtype.Present}}
	require.Nil(t, s.Stores().Projects.CreateProject(context.Background(), p))

	stmts := d.Statements()
	require.Len(t, stmts, 1)
	assert.Equal(t, "Apollo", stmts[0].Args[0])
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), stmts[0].Args[4])
	assert.Nil(t, stmts[0].Args[5])
	assert.Equal(t, pgtype.Null, p.EndDate.Status)

	err := s.Stores().Projects.CreateProject(context.Background(), &models.Project{})
	assert.ErrorIs(t, err, dberror.ErrInvalidInput)
}

func TestUpdateMembershipScopedToProject(t *testing.T) {
	s, d := newTestSession(t, func(query string, args []driver.Value) (*dbtest.Result, error) {
		return &dbtest.Result{RowsAffected: 1}, nil
	})
	m := &models.ProjectEmployee{ProjectID: "p1", EmployeeID: "e1", Role: "dev", Billable: true, BillablePercentage: 50}
	require.Nil(t, s.Stores().Memberships.UpdateMembership(context.Background(), m))
	stmts := d.Statements()
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0].Query, "WHERE project_id = $5 AND employee_id = $6")
	assert.Equal(t, []driver.Value{"dev", true, 50.0, nil, "p1", "e1"}, stmts[0].Args)
}

func TestSessionRunInTx(t *testing.T) {
	s, d := newTestSession(t, func(query string, args []driver.Value) (*dbtest.Result, error) {
		return &dbtest.Result{RowsAffected: 1}, nil
	})
	assert.Equal(t, "AcmeCorp", s.Database())
	err := s.RunInTx(context.Background(), func(ctx context.Context, st db.TenantStores) apperrors.Error {
		for _, title := range models.DefaultDesignations {
			if err := st.Designations.CreateDesignation(ctx, title); err != nil {
				return err
			}
		}
		return nil
	})
	require.Nil(t, err)
	assert.Len(t, d.Statements(), len(models.DefaultDesignations))
	assert.Equal(t, int64(1), d.Commits.Load())
	assert.Equal(t, int64(0), d.OpenConns())
}

func TestControlPlaneStore(t *testing.T) {
	d := dbtest.Register()
	d.SetResponder(func(query string, args []driver.Value) (*dbtest.Result, error) {
		if strings.HasPrefix(query, "SELECT") && args[0] == "ACME" {
			return &dbtest.Result{
				Columns: []string{"id", "tenant_code", "tenant_name"},
				Rows:    [][]driver.Value{{"t-1", "ACME", "AcmeCorp"}},
			}, nil
		}
		if strings.HasPrefix(query, "SELECT") {
			return &dbtest.Result{Columns: []string{"id", "tenant_code", "tenant_name"}}, nil
		}
		return &dbtest.Result{RowsAffected: 1}, nil
	})
	conn, err := sqlx.Open(d.Name, "control")
	require.NoError(t, err)
	defer conn.Close()

	cp := NewControlPlaneStore(conn, "control")
	ctx := context.Background()
	tenant, aerr := cp.LookupTenantByCode(ctx, "ACME")
	require.Nil(t, aerr)
	assert.Equal(t, &models.Tenant{ID: "t-1", TenantCode: "ACME", TenantName: "AcmeCorp"}, tenant)

	_, aerr = cp.LookupTenantByCode(ctx, "NOPE")
	assert.ErrorIs(t, aerr, dberror.ErrNotFound)

	require.Nil(t, cp.UpdateTenantPassword(ctx, "t-1", "digest"))
	stmts := d.Statements()
	last := stmts[len(stmts)-1]
	assert.Equal(t, []driver.Value{"digest", "t-1"}, last.Args)
}

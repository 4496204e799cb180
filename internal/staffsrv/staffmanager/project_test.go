package staffmanager

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
)

func date(y int, m time.Month, d int) pgtype.Date {
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Status: pgtype.Present}
}

func (f *fixture) team(t *testing.T) (string, string) {
	t.Helper()
	a := f.addEmployee(t, "Asha", "asha@acme.test", "Cloud")
	r := f.addEmployee(t, "Ravi", "ravi@acme.test", "Data")
	return a.ID, r.ID
}

func TestCreateProjectRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha, ravi := f.team(t)

	rsp, err := f.m.CreateProject(ctx, testTenantCode, &ProjectInput{
		Title:     "Apollo",
		Status:    "active",
		StartDate: date(2024, 1, 1),
		EndDate:   date(2024, 6, 30),
		ProjectTeam: ProjectTeam{
			{EmployeeID: asha, Role: "lead", Billable: true, BillablePercentage: 100},
			{EmployeeID: ravi, Role: "dev", Billable: false},
		},
	})
	require.Nil(t, err)
	assert.Equal(t, "Project created successfully and data saved.", rsp.Message)
	created := rsp.Data.(*ProjectView)
	require.NotEmpty(t, created.ProjectID)
	assert.Len(t, created.ProjectTeam, 2)

	rsp, err = f.m.GetProjectByID(ctx, testTenantCode, created.ProjectID)
	require.Nil(t, err)
	assert.Equal(t, "Project retreived successfully", rsp.Message)

	body, jerr := json.Marshal(rsp.Data)
	require.NoError(t, jerr)
	assert.Equal(t, created.ProjectID, gjson.GetBytes(body, "projectId").String())
	assert.Equal(t, "2024-01-01", gjson.GetBytes(body, "start_date").String())

	members := gjson.GetBytes(body, "project_team").Array()
	require.Len(t, members, 2)
	for _, member := range members {
		for _, key := range []string{"employee_id", "role", "billable", "billable_percentage", "first_name", "last_name", "studio", "designation"} {
			assert.True(t, member.Get(key).Exists(), key)
		}
		assert.False(t, member.Get("id").Exists())
		assert.False(t, member.Get("project_id").Exists())
	}
	byEmployee := map[string]gjson.Result{}
	for _, member := range members {
		byEmployee[member.Get("employee_id").String()] = member
	}
	assert.Equal(t, "Asha", byEmployee[asha].Get("first_name").String())
	assert.Equal(t, "Cloud", byEmployee[asha].Get("studio").String())
	assert.Equal(t, "lead", byEmployee[asha].Get("role").String())
	assert.Equal(t, 100.0, byEmployee[asha].Get("billable_percentage").Float())
	assert.Equal(t, "Data", byEmployee[ravi].Get("studio").String())
	assert.Equal(t, "Software Consultant", byEmployee[ravi].Get("designation").String())
}

func TestCreateProjectRepeatedMemberKeepsOneRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha, ravi := f.team(t)

	rsp, err := f.m.CreateProject(ctx, testTenantCode, &ProjectInput{
		Title: "Apollo",
		ProjectTeam: ProjectTeam{
			{EmployeeID: asha, Role: "lead"},
			{EmployeeID: ravi, Role: "dev"},
			{EmployeeID: asha, Role: "dev"},
		},
	})
	require.Nil(t, err)
	created := rsp.Data.(*ProjectView)

	rows := map[string]int{}
	for _, m := range f.store.Data(testDatabase).Memberships {
		if m.ProjectID == created.ProjectID {
			rows[m.EmployeeID]++
		}
	}
	assert.Equal(t, map[string]int{asha: 1, ravi: 1}, rows)

	require.Len(t, created.ProjectTeam, 2)
	for _, member := range created.ProjectTeam {
		if member.EmployeeID == asha {
			assert.Equal(t, "dev", member.Role)
		}
	}
}

func TestCreateProjectLeavesEmployeesUntouched(t *testing.T) {
	f := newFixture(t)
	asha, ravi := f.team(t)
	before := f.store.Data(testDatabase).Employees

	_, err := f.m.CreateProject(context.Background(), testTenantCode, &ProjectInput{
		Title:       "Apollo",
		ProjectTeam: ProjectTeam{{EmployeeID: asha, Role: "lead"}, {EmployeeID: ravi}},
	})
	require.Nil(t, err)
	assert.Equal(t, before, f.store.Data(testDatabase).Employees)
}

func TestCreateProjectEmptyRoster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rsp, err := f.m.CreateProject(ctx, testTenantCode, &ProjectInput{Title: "Solo"})
	require.Nil(t, err)
	body, jerr := json.Marshal(rsp.Data)
	require.NoError(t, jerr)
	assert.Equal(t, gjson.Null, gjson.GetBytes(body, "project_team").Type)

	rsp, err = f.m.GetProjectByID(ctx, testTenantCode, rsp.Data.(*ProjectView).ProjectID)
	require.Nil(t, err)
	assert.Equal(t, []TeamMember{}, rsp.Data.(*ProjectView).ProjectTeam)
}

func TestCreateProjectRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha, _ := f.team(t)
	_, err := f.m.CreateProject(ctx, testTenantCode, &ProjectInput{Title: "Apollo"})
	require.Nil(t, err)

	tests := []struct {
		name   string
		in     *ProjectInput
		want   error
		status int
	}{
		{"duplicate title", &ProjectInput{Title: "Apollo"}, ErrDuplicateProjectName, http.StatusBadRequest},
		{"missing title", &ProjectInput{}, ErrInvalidInput, http.StatusBadRequest},
		{"unknown employee", &ProjectInput{Title: "Gemini", ProjectTeam: ProjectTeam{{EmployeeID: asha}, {EmployeeID: "999"}}}, ErrEmployeeNotFound, http.StatusNotFound},
		{"roster entry without employee", &ProjectInput{Title: "Gemini", ProjectTeam: ProjectTeam{{Role: "dev"}}}, ErrInvalidInput, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.m.CreateProject(ctx, testTenantCode, tt.in)
			require.NotNil(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.status, err.StatusCode())
			data := f.store.Data(testDatabase)
			assert.Len(t, data.Projects, 1)
			assert.Empty(t, data.Memberships)
		})
	}
}

func TestCreateProjectIsAtomic(t *testing.T) {
	f := newFixture(t)
	asha, ravi := f.team(t)
	inserts := 0
	f.store.SetFault(testDatabase, func(op string) apperrors.Error {
		if op == "CreateMembership" {
			inserts++
			if inserts == 2 {
				return dberror.ErrQueryExecutionFailed.Err(errors.New("connection reset"))
			}
		}
		return nil
	})

	_, err := f.m.CreateProject(context.Background(), testTenantCode, &ProjectInput{
		Title:       "Apollo",
		ProjectTeam: ProjectTeam{{EmployeeID: asha}, {EmployeeID: ravi}},
	})
	require.NotNil(t, err)
	assert.ErrorIs(t, err, dberror.ErrQueryExecutionFailed)
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode())
	data := f.store.Data(testDatabase)
	assert.Empty(t, data.Projects)
	assert.Empty(t, data.Memberships)
}

func TestProjectDateOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inverted := &ProjectInput{Title: "Backwards", StartDate: date(2024, 6, 30), EndDate: date(2024, 1, 1)}

	rsp, err := f.m.CreateProject(ctx, testTenantCode, inverted)
	require.Nil(t, err)
	id := rsp.Data.(*ProjectView).ProjectID

	inverted.Description = "changed"
	_, err = f.m.UpdateProject(ctx, testTenantCode, id, inverted)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode())
	assert.Empty(t, f.store.Data(testDatabase).Projects[0].Description)

	ordered := &ProjectInput{Title: "Backwards", StartDate: date(2024, 1, 1), EndDate: date(2024, 6, 30)}
	_, err = f.m.UpdateProject(ctx, testTenantCode, id, ordered)
	require.Nil(t, err)
}

func TestUpdateProjectMergesRoster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha, ravi := f.team(t)
	rsp, err := f.m.CreateProject(ctx, testTenantCode, &ProjectInput{
		Title:       "Apollo",
		File:        "plan.pdf",
		ProjectTeam: ProjectTeam{{EmployeeID: asha, Role: "dev", Billable: true, BillablePercentage: 50}},
	})
	require.Nil(t, err)
	id := rsp.Data.(*ProjectView).ProjectID

	rsp, err = f.m.UpdateProject(ctx, testTenantCode, id, &ProjectInput{
		Title:  "Apollo",
		Status: "closed",
		ProjectTeam: ProjectTeam{
			{EmployeeID: asha, Role: "lead", Billable: true, BillablePercentage: 100, Status: "active"},
			{EmployeeID: ravi, Role: "qa"},
		},
	})
	require.Nil(t, err)
	assert.Equal(t, "project updated successfully.", rsp.Message)
	view := rsp.Data.(*ProjectView)
	assert.Equal(t, "closed", view.Status)
	assert.Equal(t, "plan.pdf", view.File)

	data := f.store.Data(testDatabase)
	require.Len(t, data.Memberships, 2)
	roles := map[string]string{}
	for _, pe := range data.Memberships {
		assert.Equal(t, id, pe.ProjectID)
		roles[pe.EmployeeID] = pe.Role
	}
	assert.Equal(t, map[string]string{asha: "lead", ravi: "qa"}, roles)

	t.Run("membership in another project is untouched", func(t *testing.T) {
		other, err := f.m.CreateProject(ctx, testTenantCode, &ProjectInput{
			Title:       "Gemini",
			ProjectTeam: ProjectTeam{{EmployeeID: asha, Role: "architect"}},
		})
		require.Nil(t, err)
		_, err = f.m.UpdateProject(ctx, testTenantCode, id, &ProjectInput{
			Title:       "Apollo",
			ProjectTeam: ProjectTeam{{EmployeeID: asha, Role: "manager"}},
		})
		require.Nil(t, err)
		rsp, err := f.m.GetProjectByID(ctx, testTenantCode, other.Data.(*ProjectView).ProjectID)
		require.Nil(t, err)
		team := rsp.Data.(*ProjectView).ProjectTeam
		require.Len(t, team, 1)
		assert.Equal(t, "architect", team[0].Role)
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := f.m.UpdateProject(ctx, testTenantCode, "999", &ProjectInput{Title: "Nope"})
		assert.ErrorIs(t, err, ErrProjectNotFound)
		assert.Equal(t, http.StatusNotFound, err.StatusCode())
	})
}

func TestGetProjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha, ravi := f.team(t)

	rsp, err := f.m.GetAllProjects(ctx, testTenantCode)
	require.Nil(t, err)
	assert.Equal(t, []*ProjectView{}, rsp.Data)

	titles := []string{"Apollo", "Gemini", "Mercury", "Artemis", "Skylab"}
	for _, title := range titles {
		_, err := f.m.CreateProject(ctx, testTenantCode, &ProjectInput{
			Title:       title,
			ProjectTeam: ProjectTeam{{EmployeeID: asha}, {EmployeeID: ravi}},
		})
		require.Nil(t, err)
	}

	rsp, err = f.m.GetAllProjects(ctx, testTenantCode)
	require.Nil(t, err)
	views := rsp.Data.([]*ProjectView)
	require.Len(t, views, len(titles))
	var got []string
	for _, v := range views {
		got = append(got, v.Title)
		assert.Len(t, v.ProjectTeam, 2)
	}
	sort.Strings(got)
	sort.Strings(titles)
	assert.Equal(t, titles, got)

	rsp, err = f.m.GetProjectByID(ctx, testTenantCode, "999")
	require.Nil(t, err)
	assert.Equal(t, "No project exist.", rsp.Message)
	assert.Equal(t, []any{}, rsp.Data)

	f.store.SetFault(testDatabase, failOn("GetEmployeesByIDs", dberror.ErrQueryExecutionFailed))
	_, err = f.m.GetAllProjects(ctx, testTenantCode)
	assert.ErrorIs(t, err, dberror.ErrQueryExecutionFailed)
}

func TestDeleteProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha, _ := f.team(t)
	rsp, err := f.m.CreateProject(ctx, testTenantCode, &ProjectInput{Title: "Apollo", ProjectTeam: ProjectTeam{{EmployeeID: asha}}})
	require.Nil(t, err)
	id := rsp.Data.(*ProjectView).ProjectID

	rsp, err = f.m.DeleteProject(ctx, testTenantCode, id)
	require.Nil(t, err)
	assert.Equal(t, "Project deleted successfully.", rsp.Message)
	data := f.store.Data(testDatabase)
	assert.Empty(t, data.Projects)
	assert.Len(t, data.Memberships, 1)

	_, err = f.m.DeleteProject(ctx, testTenantCode, id)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.Equal(t, "project not found.", err.Error())
}

func TestProjectInputAcceptsRosterString(t *testing.T) {
	var in ProjectInput
	body := `{"title":"Apollo","start_date":"2024-01-01","project_team":"[{\"employee_id\":7,\"role\":\"dev\",\"billable\":\"true\",\"billable_percentage\":\"40\"}]"}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	assert.Equal(t, ProjectTeam{{EmployeeID: "7", Role: "dev", Billable: true, BillablePercentage: 40}}, in.ProjectTeam)
	assert.Equal(t, date(2024, 1, 1), in.StartDate)
	assert.Equal(t, pgtype.Undefined, in.EndDate.Status)
}

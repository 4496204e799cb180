package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestUnknownTenant(t *testing.T) {
	env := newTestEnv(t)
	response := env.do(t, http.MethodGet, "/tenants/NOPE/employees", nil)
	require.Equal(t, http.StatusNotFound, response.Code)
	checkHeader(t, response.Result().Header)
	compareJson(t, map[string]any{"message": "Tenant not found", "statusCode": 404}, response.Body.String())
}

func TestMissingTenantDatabase(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddTenant("ORPHAN", "Orphan")
	response := env.do(t, http.MethodGet, "/tenants/ORPHAN/employees", nil)
	require.Equal(t, http.StatusInternalServerError, response.Code)
	assert.Equal(t, "Tenant database configuration not found.", gjson.Get(response.Body.String(), "message").String())
}

func TestEmployeeCrud(t *testing.T) {
	env := newTestEnv(t)
	base := "/tenants/" + testTenantCode

	newEmployee := map[string]any{
		"first_name":  "Asha",
		"last_name":   "Rao",
		"email":       "asha@acme.test",
		"password":    "secret",
		"designation": "AVP",
		"location":    "Pune",
	}
	response := env.do(t, http.MethodPost, base+"/employees", newEmployee)
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
	checkHeader(t, response.Result().Header)
	body := response.Body.String()
	assert.Equal(t, "User created successfully and data saved.", gjson.Get(body, "message").String())
	assert.Equal(t, testTenantCode, gjson.Get(body, "data.tenant_code").String())
	assert.Equal(t, testDatabase, gjson.Get(body, "data.tenant_name").String())
	assert.False(t, gjson.Get(body, "data.password").Exists())
	id := gjson.Get(body, "data.id").String()
	require.NotEmpty(t, id)

	response = env.do(t, http.MethodPost, base+"/employees", newEmployee)
	require.Equal(t, http.StatusCreated, response.Code)
	compareJson(t, map[string]any{
		"message": "User with this email already exists. Please use another email.",
		"data":    nil,
	}, response.Body.String())

	response = env.do(t, http.MethodGet, base+"/employees/"+id, nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "Asha", gjson.Get(response.Body.String(), "data.first_name").String())

	response = env.do(t, http.MethodGet, base+"/employees/999", nil)
	require.Equal(t, http.StatusOK, response.Code)
	compareJson(t, map[string]any{"message": "User not found.", "data": nil}, response.Body.String())

	response = env.do(t, http.MethodGet, base+"/employees/filter/name?name=as", nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Len(t, gjson.Get(response.Body.String(), "data").Array(), 1)

	response = env.do(t, http.MethodGet, base+"/employees/filter/name", nil)
	require.Equal(t, http.StatusBadRequest, response.Code)

	response = env.do(t, http.MethodGet, base+"/employees/filter/location?location=pu", nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Len(t, gjson.Get(response.Body.String(), "data").Array(), 1)

	response = env.do(t, http.MethodGet, base+"/employees/check-email?email=asha@acme.test", nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "Employee with this email already exist", gjson.Get(response.Body.String(), "message").String())

	response = env.do(t, http.MethodPut, base+"/employees/"+id, map[string]any{"first_name": "Asha", "email": "asha@acme.test", "location": "Goa"})
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "Goa", gjson.Get(response.Body.String(), "data.location").String())

	response = env.do(t, http.MethodPut, base+"/employees/"+id+"/reporting", map[string]any{"studio_name": "Cloud", "reporting_manager": "Ravi"})
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "Ravi", gjson.Get(response.Body.String(), "data.reporting_manager").String())

	response = env.do(t, http.MethodPut, base+"/employees/"+id+"/competency-head", map[string]any{"competency_head": true, "studio_name": "Cloud"})
	require.Equal(t, http.StatusOK, response.Code)
	assert.True(t, gjson.Get(response.Body.String(), "data.competency_head").Bool())

	response = env.do(t, http.MethodGet, base+"/access-labels/"+id, nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.True(t, gjson.Get(response.Body.String(), "data.isprofileupdate").Bool())

	response = env.do(t, http.MethodDelete, base+"/employees/"+id, nil)
	require.Equal(t, http.StatusOK, response.Code)
	response = env.do(t, http.MethodGet, base+"/employees/"+id, nil)
	assert.Equal(t, "inactive", gjson.Get(response.Body.String(), "data.status").String())

	response = env.do(t, http.MethodDelete, base+"/employees/999", nil)
	require.Equal(t, http.StatusNotFound, response.Code)
	compareJson(t, map[string]any{"message": "User not found.", "statusCode": 404}, response.Body.String())

	response = env.do(t, http.MethodGet, base+"/employees", nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Len(t, gjson.Get(response.Body.String(), "data").Array(), 1)
}

func TestDesignations(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 2; i++ {
		response := env.do(t, http.MethodGet, "/tenants/"+testTenantCode+"/designations", nil)
		require.Equal(t, http.StatusOK, response.Code)
		titles := gjson.Get(response.Body.String(), "data.#.title").Array()
		require.Len(t, titles, 5)
		assert.Equal(t, "intern", titles[0].String())
	}
}

func TestCompetencyRoutes(t *testing.T) {
	env := newTestEnv(t)
	base := "/tenants/" + testTenantCode + "/competencies"

	response := env.do(t, http.MethodPost, base, map[string]any{"competency_name": "Cloud", "status": "active"})
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
	id := gjson.Get(response.Body.String(), "data.id").String()
	assert.Len(t, gjson.Get(response.Body.String(), "data.competency_code").String(), 8)

	response = env.do(t, http.MethodPost, base, map[string]any{"competency_name": "Cloud"})
	require.Equal(t, http.StatusBadRequest, response.Code)

	response = env.do(t, http.MethodGet, base+"/check-name?name=Cloud", nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "Competency with this name already exist", gjson.Get(response.Body.String(), "message").String())

	response = env.do(t, http.MethodPut, base+"/"+id, map[string]any{"competency_name": "Cloud", "description": "infra"})
	require.Equal(t, http.StatusOK, response.Code)

	response = env.do(t, http.MethodGet, base+"/"+id, nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "infra", gjson.Get(response.Body.String(), "data.description").String())

	response = env.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Len(t, gjson.Get(response.Body.String(), "data").Array(), 1)

	response = env.do(t, http.MethodDelete, base+"/"+id, nil)
	require.Equal(t, http.StatusOK, response.Code)
	response = env.do(t, http.MethodGet, base+"/"+id, nil)
	require.Equal(t, http.StatusNotFound, response.Code)
}
